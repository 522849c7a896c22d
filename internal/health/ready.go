package health

import "sync/atomic"

// Readiness 就绪状态：面板握手完成且存储可用
type Readiness struct {
	panelReady   atomic.Bool
	storageReady atomic.Bool
}

func New() *Readiness { return &Readiness{} }

func (r *Readiness) SetPanelReady(v bool)   { r.panelReady.Store(v) }
func (r *Readiness) SetStorageReady(v bool) { r.storageReady.Store(v) }

// Ready 总体就绪：各子系统均为 true
func (r *Readiness) Ready() bool {
	return r.panelReady.Load() && r.storageReady.Load()
}
