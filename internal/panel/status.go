package panel

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lsta/pai/internal/protocol/paradox"
)

// Status 状态块解析结果：元素 -> 序号 -> 属性 -> 值
type Status map[string]map[int]map[string]any

// Set 写入单个属性
func (s Status) Set(element string, index int, property string, value any) {
	byIndex, ok := s[element]
	if !ok {
		byIndex = make(map[int]map[string]any)
		s[element] = byIndex
	}
	props, ok := byIndex[index]
	if !ok {
		props = make(map[string]any)
		byIndex[index] = props
	}
	props[property] = value
}

// Merge 合并另一份结果，后者覆盖同名属性
func (s Status) Merge(other Status) {
	for element, byIndex := range other {
		for index, props := range byIndex {
			for k, v := range props {
				s.Set(element, index, k, v)
			}
		}
	}
}

// StatusParser 将 RAM 块数据解析为状态
type StatusParser interface {
	Parse(data []byte) (Status, error)
}

// ParserFunc 函数适配器
type ParserFunc func(data []byte) (Status, error)

func (f ParserFunc) Parse(data []byte) (Status, error) { return f(data) }

// BitmapParser 每个元素一位：data[Offset] 的 bit0 对应序号 1
type BitmapParser struct {
	Element  string
	Property string
	Offset   int
	Count    int
}

func (p BitmapParser) Parse(data []byte) (Status, error) {
	need := p.Offset + (p.Count+7)/8
	if len(data) < need {
		return nil, fmt.Errorf("bitmap %s.%s: need %d bytes, got %d", p.Element, p.Property, need, len(data))
	}
	out := make(Status)
	for i := 0; i < p.Count; i++ {
		bit := data[p.Offset+i/8]>>(i%8)&1 == 1
		out.Set(p.Element, i+1, p.Property, bit)
	}
	return out, nil
}

// chain 同一地址的多个解析器依次执行并合并
type chain []StatusParser

func (c chain) Parse(data []byte) (Status, error) {
	out := make(Status)
	for _, p := range c {
		st, err := p.Parse(data)
		if err != nil {
			return nil, err
		}
		out.Merge(st)
	}
	return out, nil
}

// HandleStatus 按地址分派 RAM 状态块
// 找不到解析器或解析失败（含 panic）只记录日志并返回 false，不影响会话
func HandleStatus(msg *paradox.ReadEEPROMResponse, parsers map[uint16]StatusParser, logger *zap.Logger) (st Status, ok bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if msg == nil {
		return nil, false
	}

	parser, found := parsers[msg.Address]
	if !found {
		logger.Error("status parser for memory address is not implemented, review the status section of the memory map",
			zap.Uint16("address", msg.Address))
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unable to parse RAM status block",
				zap.Uint16("address", msg.Address), zap.Any("panic", r), zap.Stack("stack"))
			st, ok = nil, false
		}
	}()

	st, err := parser.Parse(msg.Data)
	if err != nil {
		logger.Error("unable to parse RAM status block", zap.Uint16("address", msg.Address), zap.Error(err))
		return nil, false
	}
	return st, true
}
