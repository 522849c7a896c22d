package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
// 所有方法对 nil 接收者安全，组件在未启用指标时可直接传 nil
type AppMetrics struct {
	FramesSent       *prometheus.CounterVec // labels: message
	FramesReceived   *prometheus.CounterVec // labels: message, result=ok|error|unknown
	ChecksumErrors   prometheus.Counter
	ReplyTimeouts    prometheus.Counter
	LabelsLoaded     *prometheus.CounterVec // labels: element
	LabelLoadFailed  *prometheus.CounterVec // labels: element
	StatusDispatched *prometheus.CounterVec // labels: result=ok|missing|error
	PanelConnected   prometheus.Gauge
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pai_frames_sent_total",
			Help: "Frames written to the panel by message.",
		}, []string{"message"}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pai_frames_received_total",
			Help: "Frames read from the panel by message and decode result.",
		}, []string{"message", "result"}),
		ChecksumErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pai_checksum_errors_total",
			Help: "Inbound frames rejected by checksum.",
		}),
		ReplyTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pai_reply_timeouts_total",
			Help: "Requests that exhausted retries without a matching reply.",
		}),
		LabelsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pai_labels_loaded_total",
			Help: "Labels loaded from panel memory by element.",
		}, []string{"element"}),
		LabelLoadFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pai_label_load_failures_total",
			Help: "Element label loads aborted on a missing reply.",
		}, []string{"element"}),
		StatusDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pai_status_dispatch_total",
			Help: "RAM status blocks dispatched by result.",
		}, []string{"result"}),
		PanelConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pai_panel_connected",
			Help: "1 while a panel session is established.",
		}),
	}
	reg.MustRegister(m.FramesSent, m.FramesReceived, m.ChecksumErrors, m.ReplyTimeouts,
		m.LabelsLoaded, m.LabelLoadFailed, m.StatusDispatched, m.PanelConnected)
	return m
}

func (m *AppMetrics) FrameSent(message string) {
	if m != nil {
		m.FramesSent.WithLabelValues(message).Inc()
	}
}

func (m *AppMetrics) FrameReceived(message, result string) {
	if m != nil {
		m.FramesReceived.WithLabelValues(message, result).Inc()
	}
}

func (m *AppMetrics) ChecksumError() {
	if m != nil {
		m.ChecksumErrors.Inc()
	}
}

func (m *AppMetrics) ReplyTimeout() {
	if m != nil {
		m.ReplyTimeouts.Inc()
	}
}

func (m *AppMetrics) LabelLoaded(element string) {
	if m != nil {
		m.LabelsLoaded.WithLabelValues(element).Inc()
	}
}

func (m *AppMetrics) LabelFailed(element string) {
	if m != nil {
		m.LabelLoadFailed.WithLabelValues(element).Inc()
	}
}

func (m *AppMetrics) StatusResult(result string) {
	if m != nil {
		m.StatusDispatched.WithLabelValues(result).Inc()
	}
}

func (m *AppMetrics) SetConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.PanelConnected.Set(1)
	} else {
		m.PanelConnected.Set(0)
	}
}
