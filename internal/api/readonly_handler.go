package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/protocol/paradox"
)

// SnapshotSource 当前会话快照；尚无会话时返回 false
type SnapshotSource interface {
	Snapshot() (gateway.Snapshot, bool)
}

// SnapshotFunc 函数适配器
type SnapshotFunc func() (gateway.Snapshot, bool)

func (f SnapshotFunc) Snapshot() (gateway.Snapshot, bool) { return f() }

// ReadOnlyHandler 只读API处理器
type ReadOnlyHandler struct {
	source SnapshotSource
	logger *zap.Logger
}

// NewReadOnlyHandler 创建只读API处理器
func NewReadOnlyHandler(source SnapshotSource, logger *zap.Logger) *ReadOnlyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadOnlyHandler{source: source, logger: logger}
}

func (h *ReadOnlyHandler) snapshot(c *gin.Context) (gateway.Snapshot, bool) {
	snap, ok := h.source.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "panel session not established"})
	}
	return snap, ok
}

// GetPanel 面板身份与连接状态
// GET /api/panel
func (h *ReadOnlyHandler) GetPanel(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": snap.SessionID,
		"connected":  snap.Connected,
		"panel":      snap.Panel,
		"updated_at": snap.UpdatedAt,
	})
}

// ListLabels 全部类别的标签
// GET /api/labels
func (h *ReadOnlyHandler) ListLabels(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": snap.Labels})
}

// GetElementLabels 单个类别的标签
// GET /api/labels/:element
func (h *ReadOnlyHandler) GetElementLabels(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	element := c.Param("element")
	entries, found := snap.Labels[element]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown element", "element": element})
		return
	}
	c.JSON(http.StatusOK, gin.H{"element": element, "labels": entries})
}

// GetStatus 状态快照，可用 ?element= 过滤
// GET /api/status
func (h *ReadOnlyHandler) GetStatus(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	if element := c.Query("element"); element != "" {
		c.JSON(http.StatusOK, gin.H{"element": element, "status": snap.Status[element]})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": snap.Status, "updated_at": snap.UpdatedAt})
}

// GetErrorMessage 面板错误码说明；支持十进制与 0x 前缀十六进制
// GET /api/errors/:code
func (h *ReadOnlyHandler) GetErrorMessage(c *gin.Context) {
	raw := c.Param("code")
	code, err := parseCode(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid error code", "code": raw})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "message": paradox.ErrorMessage(int(code))})
}

// ListMessages 已注册的消息类型
// GET /api/messages
func (h *ReadOnlyHandler) ListMessages(c *gin.Context) {
	names := paradox.Names()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		spec, err := paradox.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, gin.H{"name": spec.Name, "direction": spec.Direction.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["name"].(string) < out[j]["name"].(string) })
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

func parseCode(raw string) (int64, error) {
	if hex, ok := strings.CutPrefix(strings.ToLower(raw), "0x"); ok {
		return strconv.ParseInt(hex, 16, 32)
	}
	return strconv.ParseInt(raw, 10, 32)
}
