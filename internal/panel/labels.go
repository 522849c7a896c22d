package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/lsta/pai/internal/protocol/paradox"
)

// Label 单个元素的标签
type Label struct {
	ID    int
	Key   string
	Label string
	// Props 元素类别的默认属性
	Props map[string]any
}

// MarshalJSON 默认属性与 id/key/label 平铺输出
func (l Label) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Props)+3)
	for k, v := range l.Props {
		out[k] = v
	}
	out["id"] = l.ID
	out["key"] = l.Key
	out["label"] = l.Label
	return json.Marshal(out)
}

// Labels 元素类别 -> 序号 -> 标签
type Labels map[string]map[int]Label

// LoadLabels 按内存布局逐类读取标签
// 某类元素中途无应答只终止该类剩余读取，已加载的类别保留；各类失败合并返回
func (c *Core) LoadLabels(ctx context.Context) (Labels, error) {
	c.logger.Info("updating labels from panel")

	dec := c.labelDecoder()
	out := make(Labels, len(c.memMap.Elements))
	var errs []error
	for _, el := range c.memMap.Elements {
		entries := make(map[int]Label)
		out[el.Name] = entries

		if err := c.loadElement(ctx, el, entries, dec); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}

		names := make([]string, 0, len(entries))
		for _, ia := range el.Indexed(c.opts.Limits[el.Name]) {
			if l, ok := entries[ia.Index]; ok {
				names = append(names, l.Label)
			}
		}
		c.logger.Info("labels loaded", zap.String("element", el.Name), zap.Int("count", len(entries)),
			zap.String("labels", strings.Join(names, ", ")))
	}
	return out, errors.Join(errs...)
}

func (c *Core) loadElement(ctx context.Context, el Element, entries map[int]Label, dec *encoding.Decoder) error {
	fieldLength := el.FieldLength
	if fieldLength <= 0 {
		fieldLength = defaultFieldLength
	}
	if el.LabelOffset < 0 || el.LabelOffset+fieldLength > paradox.MemoryBlockLength {
		return fmt.Errorf("load %s labels: label_offset+field_length %d exceeds the %d-byte memory block: %w",
			el.Name, el.LabelOffset+fieldLength, paradox.MemoryBlockLength, ErrInvalidLayout)
	}

	for _, ia := range el.Indexed(c.opts.Limits[el.Name]) {
		req := paradox.NewReadEEPROM(ia.Address)
		req.Length = uint8(fieldLength)

		reply, err := c.conn.SendWait(ctx, req, paradox.MemoryReply(ia.Address))
		resp, _ := reply.(*paradox.ReadEEPROMResponse)
		if err != nil || resp == nil {
			c.logger.Error("could not fully load labels",
				zap.String("element", el.Name), zap.Int("index", ia.Index), zap.Uint16("address", ia.Address), zap.Error(err))
			c.metrics.LabelFailed(el.Name)
			if err == nil {
				err = ErrNoReply
			}
			return fmt.Errorf("load %s labels at index %d (address 0x%04X): %w", el.Name, ia.Index, ia.Address, err)
		}

		raw := extractField(resp.Data, el.LabelOffset, fieldLength)
		label := c.decodeLabel(raw, dec)
		entries[ia.Index] = Label{
			ID:    ia.Index,
			Key:   SanitizeKey(label),
			Label: label,
			Props: copyProps(el.Defaults),
		}
		c.metrics.LabelLoaded(el.Name)
	}
	return nil
}

// extractField 截取标签字段，去掉首尾的 NUL/空格，内部 NUL 替换为空格
func extractField(data []byte, offset, length int) []byte {
	if offset >= len(data) {
		return nil
	}
	end := offset + length
	if end > len(data) {
		end = len(data)
	}
	field := bytes.Trim(data[offset:end], "\x00 ")
	return bytes.ReplaceAll(field, []byte{0}, []byte{' '})
}

// labelDecoder 按配置的编码名查找解码器；UTF-8 或未知编码返回 nil
func (c *Core) labelDecoder() *encoding.Decoder {
	name := c.opts.Encoding
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		c.logger.Warn("unsupported label encoding, using utf-8", zap.String("encoding", name), zap.Error(err))
		return nil
	}
	return enc.NewDecoder()
}

// decodeLabel 严格解码失败时退回 UTF-8 并丢弃非法字节
func (c *Core) decodeLabel(raw []byte, dec *encoding.Decoder) string {
	if dec == nil {
		if utf8.Valid(raw) {
			return string(raw)
		}
	} else if out, err := dec.Bytes(raw); err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		return string(out)
	}

	c.logger.Warn("unable to properly decode label, specify a different encoding in labels.encoding",
		zap.Binary("label", raw), zap.String("encoding", c.opts.Encoding))
	return strings.ToValidUTF8(string(raw), "")
}

func copyProps(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
