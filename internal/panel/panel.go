package panel

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/lsta/pai/internal/metrics"
	"github.com/lsta/pai/internal/protocol/paradox"
)

var (
	// ErrNotSupported 当前面板型号未实现该能力
	ErrNotSupported = errors.New("not supported by this panel model")
	// ErrNoReply 传输层未返回匹配的应答
	ErrNoReply = errors.New("no matching reply")
	// ErrInvalidLayout 元素标签字段超出单次内存读范围
	ErrInvalidLayout = errors.New("invalid memory layout")
)

// Transport 请求/应答关联原语，超时与重试由实现方负责
// 未收到匹配应答时返回 (nil, err) 或 (nil, nil)，调用方一律按"无应答"处理
type Transport interface {
	SendWait(ctx context.Context, msg paradox.Message, expected paradox.Predicate) (paradox.Message, error)
}

// Model 面板型号需要实现的能力
type Model interface {
	InitializeCommunication(ctx context.Context, reply *paradox.StartCommunicationResponse, password string) error
	RequestStatus(ctx context.Context, block uint16) (*paradox.ReadEEPROMResponse, error)
	ControlZones(ctx context.Context, zones []int, command string) error
	ControlPartitions(ctx context.Context, partitions []int, command string) error
	ControlOutputs(ctx context.Context, outputs []int, command string) error
	DumpMemory(ctx context.Context, w io.Writer) error
}

// Options 标签加载配置
type Options struct {
	// Encoding 标签文本编码（IANA 名称），空值按 UTF-8
	Encoding string
	// Limits 每类元素允许加载的序号；未出现的类别不过滤
	Limits map[string][]int
}

// Core 与具体型号无关的面板逻辑
type Core struct {
	conn    Transport
	model   Model
	memMap  *MemoryMap
	parsers map[uint16]StatusParser
	opts    Options
	logger  *zap.Logger
	metrics *metrics.AppMetrics
}

// NewCore 创建面板核心；memMap 为 nil 时使用内置布局
func NewCore(conn Transport, model Model, memMap *MemoryMap, opts Options, logger *zap.Logger, m *metrics.AppMetrics) (*Core, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if memMap == nil {
		mm, err := DefaultMemoryMap()
		if err != nil {
			return nil, err
		}
		memMap = mm
	}
	parsers, err := memMap.StatusParsers()
	if err != nil {
		return nil, err
	}
	return &Core{
		conn:    conn,
		model:   model,
		memMap:  memMap,
		parsers: parsers,
		opts:    opts,
		logger:  logger,
		metrics: m,
	}, nil
}

func (c *Core) Model() Model { return c.model }

func (c *Core) MemoryMap() *MemoryMap { return c.memMap }

// ParseMessage 面板级分派：握手帧之外还识别内存读请求/应答
func (c *Core) ParseMessage(b []byte, dir paradox.Direction) (paradox.Message, error) {
	return ParseMessage(b, dir)
}

// GetMessage 按名称取消息描述
func (c *Core) GetMessage(name string) (paradox.Spec, error) {
	return paradox.Lookup(name)
}

// ErrorMessage 面板错误码文本
func (c *Core) ErrorMessage(code int) string {
	return paradox.ErrorMessage(code)
}

// HandleStatus 使用内存布局中的解析器分派 RAM 状态块
func (c *Core) HandleStatus(msg *paradox.ReadEEPROMResponse) (Status, bool) {
	if msg != nil {
		if _, ok := c.parsers[msg.Address]; !ok {
			c.metrics.StatusResult("missing")
			return HandleStatus(msg, c.parsers, c.logger)
		}
	}
	st, ok := HandleStatus(msg, c.parsers, c.logger)
	if ok {
		c.metrics.StatusResult("ok")
	} else {
		c.metrics.StatusResult("error")
	}
	return st, ok
}

// ParseMessage 在握手分派之后识别内存读帧与 CloseConnection
func ParseMessage(b []byte, dir paradox.Direction) (paradox.Message, error) {
	msg, err := paradox.ParseMessage(b, dir)
	if msg != nil || err != nil || len(b) == 0 {
		return msg, err
	}

	switch dir {
	case paradox.ToPanel:
		switch b[0] {
		case 0x50:
			return asMessage(paradox.ParseReadEEPROM(b))
		case 0x70:
			return asMessage(paradox.ParseCloseConnection(b))
		}
	case paradox.FromPanel:
		if b[0]>>4 == 0x5 {
			return asMessage(paradox.ParseReadEEPROMResponse(b))
		}
	}
	return nil, nil
}

// asMessage 解码失败时返回无类型的 nil
func asMessage(m paradox.Message, err error) (paradox.Message, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}
