package panel

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/lsta/pai/internal/protocol/paradox"
)

// Generic 由内存布局驱动的通用型号：支持状态读取，不支持控制类命令
type Generic struct {
	conn   Transport
	logger *zap.Logger

	mu        sync.RWMutex
	productID paradox.ProductID
	password  []byte
}

// NewGeneric 创建通用型号
func NewGeneric(conn Transport, logger *zap.Logger) *Generic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generic{conn: conn, logger: logger}
}

// InitializeCommunication 记录型号并编码 PC 密码
func (g *Generic) InitializeCommunication(_ context.Context, reply *paradox.StartCommunicationResponse, password string) error {
	if reply == nil {
		return fmt.Errorf("initialize communication: %w", ErrNoReply)
	}
	encoded, err := paradox.EncodePassword(password)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.productID = reply.ProductID
	g.password = encoded
	g.mu.Unlock()

	g.logger.Info("panel communication initialized",
		zap.Stringer("product", reply.ProductID), zap.Uint16("panel_id", reply.PanelID),
		zap.Bool("pc_password", !isNoPassword(encoded)))
	return nil
}

// EncodedPassword 最近一次初始化编码后的 PC 密码（2 字节），未初始化时为 nil
func (g *Generic) EncodedPassword() []byte {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.password == nil {
		return nil
	}
	return append([]byte(nil), g.password...)
}

func isNoPassword(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ProductID 最近一次初始化记录的型号
func (g *Generic) ProductID() paradox.ProductID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.productID
}

// RequestStatus 读取一个 RAM 状态块
func (g *Generic) RequestStatus(ctx context.Context, block uint16) (*paradox.ReadEEPROMResponse, error) {
	reply, err := g.conn.SendWait(ctx, paradox.NewReadRAM(block), paradox.RAMReply(block))
	if err != nil {
		return nil, fmt.Errorf("request status block %d: %w", block, err)
	}
	resp, ok := reply.(*paradox.ReadEEPROMResponse)
	if !ok || resp == nil {
		return nil, fmt.Errorf("request status block %d: %w", block, ErrNoReply)
	}
	return resp, nil
}

func (g *Generic) ControlZones(context.Context, []int, string) error {
	return fmt.Errorf("control zones: %w", ErrNotSupported)
}

func (g *Generic) ControlPartitions(context.Context, []int, string) error {
	return fmt.Errorf("control partitions: %w", ErrNotSupported)
}

func (g *Generic) ControlOutputs(context.Context, []int, string) error {
	return fmt.Errorf("control outputs: %w", ErrNotSupported)
}

func (g *Generic) DumpMemory(context.Context, io.Writer) error {
	return fmt.Errorf("dump memory: %w", ErrNotSupported)
}
