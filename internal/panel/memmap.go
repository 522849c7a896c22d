package panel

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lsta/pai/internal/protocol/paradox"
)

//go:embed memory_map.yaml
var defaultMemoryMap []byte

// MemoryMap 面板型号的内存布局：带标签的元素表与 RAM 状态块
type MemoryMap struct {
	Elements []Element    `yaml:"elements" json:"elements"`
	Status   []StatusSpec `yaml:"status" json:"status"`
}

// Element 一类带标签的元素（防区、分区、输出……），按声明顺序加载
type Element struct {
	Name        string         `yaml:"name" json:"name"`
	LabelOffset int            `yaml:"label_offset" json:"label_offset"`
	FieldLength int            `yaml:"field_length" json:"field_length"`
	Addresses   []AddressRule  `yaml:"addresses" json:"addresses"`
	Defaults    map[string]any `yaml:"defaults" json:"defaults,omitempty"`
}

// AddressRule 地址枚举规则：显式列表，或 start/count/step 区间
type AddressRule struct {
	List  []uint16 `yaml:"list,omitempty" json:"list,omitempty"`
	Start uint16   `yaml:"start" json:"start"`
	Count int      `yaml:"count" json:"count"`
	Step  int      `yaml:"step" json:"step"`
}

// StatusSpec RAM 状态块中一段位图到元素属性的映射
type StatusSpec struct {
	Address  uint16 `yaml:"address" json:"address"`
	Parser   string `yaml:"parser" json:"parser"`
	Element  string `yaml:"element" json:"element"`
	Property string `yaml:"property" json:"property"`
	Offset   int    `yaml:"offset" json:"offset"`
	Count    int    `yaml:"count" json:"count"`
}

const defaultFieldLength = 16

// IndexedAddress 1 起始的元素序号及其内存地址
type IndexedAddress struct {
	Index   int
	Address uint16
}

// Expand 展开规则为地址序列
func (r AddressRule) Expand() []uint16 {
	out := make([]uint16, 0, len(r.List)+r.Count)
	out = append(out, r.List...)
	for i := 0; i < r.Count; i++ {
		out = append(out, r.Start+uint16(i*r.Step))
	}
	return out
}

// Indexed 依次串联所有规则并编号；limits 非空时只保留其中的序号
func (e Element) Indexed(limits []int) []IndexedAddress {
	var allow map[int]bool
	if limits != nil {
		allow = make(map[int]bool, len(limits))
		for _, i := range limits {
			allow[i] = true
		}
	}

	var out []IndexedAddress
	index := 0
	for _, rule := range e.Addresses {
		for _, addr := range rule.Expand() {
			index++
			if allow != nil && !allow[index] {
				continue
			}
			out = append(out, IndexedAddress{Index: index, Address: addr})
		}
	}
	return out
}

// Element 按名称查找
func (m *MemoryMap) Element(name string) (Element, bool) {
	for _, e := range m.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

// StatusBlocks 需要轮询的 RAM 块地址（去重，保持声明顺序）
func (m *MemoryMap) StatusBlocks() []uint16 {
	seen := make(map[uint16]bool)
	var out []uint16
	for _, s := range m.Status {
		if !seen[s.Address] {
			seen[s.Address] = true
			out = append(out, s.Address)
		}
	}
	return out
}

// StatusParsers 构造 地址 -> 解析器 映射；同一地址的多段位图合并解析
func (m *MemoryMap) StatusParsers() (map[uint16]StatusParser, error) {
	grouped := make(map[uint16]chain)
	for _, s := range m.Status {
		p, err := newStatusParser(s)
		if err != nil {
			return nil, err
		}
		grouped[s.Address] = append(grouped[s.Address], p)
	}

	out := make(map[uint16]StatusParser, len(grouped))
	for addr, c := range grouped {
		if len(c) == 1 {
			out[addr] = c[0]
		} else {
			out[addr] = c
		}
	}
	return out, nil
}

func newStatusParser(s StatusSpec) (StatusParser, error) {
	switch s.Parser {
	case "bitmap", "":
		return BitmapParser{Element: s.Element, Property: s.Property, Offset: s.Offset, Count: s.Count}, nil
	default:
		return nil, fmt.Errorf("status block 0x%04X: unknown parser %q", s.Address, s.Parser)
	}
}

// Validate 检查元素表与状态块定义
func (m *MemoryMap) Validate() error {
	var errs []error
	names := make(map[string]bool)
	for i := range m.Elements {
		e := &m.Elements[i]
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("element #%d: name is required", i))
			continue
		}
		if names[e.Name] {
			errs = append(errs, fmt.Errorf("element %s: duplicated", e.Name))
		}
		names[e.Name] = true
		if e.FieldLength == 0 {
			e.FieldLength = defaultFieldLength
		}
		if e.LabelOffset < 0 || e.FieldLength < 0 {
			errs = append(errs, fmt.Errorf("element %s: negative offset or length", e.Name))
		} else if e.LabelOffset+e.FieldLength > paradox.MemoryBlockLength {
			errs = append(errs, fmt.Errorf("element %s: label_offset+field_length %d exceeds the %d-byte memory block",
				e.Name, e.LabelOffset+e.FieldLength, paradox.MemoryBlockLength))
		}
		for j, r := range e.Addresses {
			if r.Count < 0 || (r.Count > 1 && r.Step <= 0) {
				errs = append(errs, fmt.Errorf("element %s: address rule #%d needs a positive step", e.Name, j))
			}
		}
	}
	for _, s := range m.Status {
		if _, err := newStatusParser(s); err != nil {
			errs = append(errs, err)
		}
		if s.Element == "" || s.Property == "" || s.Count <= 0 || s.Offset < 0 {
			errs = append(errs, fmt.Errorf("status block 0x%04X: element, property and count are required", s.Address))
		}
	}
	return errors.Join(errs...)
}

// ParseMemoryMap 解析 YAML 内存布局
func ParseMemoryMap(data []byte) (*MemoryMap, error) {
	var m MemoryMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse memory map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory map: %w", err)
	}
	return &m, nil
}

// LoadMemoryMap 从文件加载；path 为空时使用内置 EVO 布局
func LoadMemoryMap(path string) (*MemoryMap, error) {
	if path == "" {
		return DefaultMemoryMap()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read memory map: %w", err)
	}
	return ParseMemoryMap(data)
}

// DefaultMemoryMap 内置 EVO 系列布局
func DefaultMemoryMap() (*MemoryMap, error) {
	return ParseMemoryMap(defaultMemoryMap)
}
