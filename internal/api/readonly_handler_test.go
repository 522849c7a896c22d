package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsta/pai/internal/api/middleware"
	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/panel"
)

func testSnapshot() gateway.Snapshot {
	st := panel.Status{}
	st.Set("zone", 1, "open", true)
	st.Set("partition", 1, "arm", false)
	return gateway.Snapshot{
		SessionID: "s-1",
		Connected: true,
		Panel:     &gateway.PanelInfo{SerialNumber: "05010203", Label: "EVO192"},
		Labels: panel.Labels{
			"zone": {1: {ID: 1, Key: "Hall", Label: "Hall"}},
		},
		Status:    st,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newRouter(t *testing.T, source SnapshotSource, auth middleware.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterReadOnlyRoutes(r, source, auth, nil)
	return r
}

func get(r http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestReadOnlyRoutes(t *testing.T) {
	source := SnapshotFunc(func() (gateway.Snapshot, bool) { return testSnapshot(), true })
	r := newRouter(t, source, middleware.AuthConfig{})

	t.Run("面板", func(t *testing.T) {
		rr := get(r, "/api/panel")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "s-1", body["session_id"])
		assert.Equal(t, true, body["connected"])
		assert.Equal(t, "05010203", body["panel"].(map[string]any)["serial_number"])
	})

	t.Run("全部标签", func(t *testing.T) {
		rr := get(r, "/api/labels")
		require.Equal(t, http.StatusOK, rr.Code)
		labels := decode(t, rr)["labels"].(map[string]any)
		zone1 := labels["zone"].(map[string]any)["1"].(map[string]any)
		assert.Equal(t, "Hall", zone1["label"])
		assert.Equal(t, "Hall", zone1["key"])
	})

	t.Run("单类标签", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(r, "/api/labels/zone").Code)
		assert.Equal(t, http.StatusNotFound, get(r, "/api/labels/door").Code)
	})

	t.Run("状态", func(t *testing.T) {
		body := decode(t, get(r, "/api/status"))
		assert.Contains(t, body["status"], "partition")

		body = decode(t, get(r, "/api/status?element=zone"))
		zone := body["status"].(map[string]any)
		assert.Equal(t, true, zone["1"].(map[string]any)["open"])
	})

	t.Run("错误码", func(t *testing.T) {
		tests := []struct {
			path string
			code int
			want string
		}{
			{"/api/errors/17", http.StatusOK, "Panel Already Connected"},
			{"/api/errors/0x12", http.StatusOK, "Invalid PC Password"},
			{"/api/errors/010", http.StatusOK, "10"},
			{"/api/errors/153", http.StatusOK, "153"},
			{"/api/errors/abc", http.StatusBadRequest, ""},
		}
		for _, tt := range tests {
			rr := get(r, tt.path)
			require.Equal(t, tt.code, rr.Code, tt.path)
			if tt.want != "" {
				assert.Equal(t, tt.want, decode(t, rr)["message"], tt.path)
			}
		}
	})

	t.Run("消息类型", func(t *testing.T) {
		body := decode(t, get(r, "/api/messages"))
		msgs := body["messages"].([]any)
		assert.Len(t, msgs, 7)
		assert.Equal(t, "CloseConnection", msgs[0].(map[string]any)["name"])
	})
}

func TestReadOnlyRoutes_NoSession(t *testing.T) {
	source := SnapshotFunc(func() (gateway.Snapshot, bool) { return gateway.Snapshot{}, false })
	r := newRouter(t, source, middleware.AuthConfig{})
	for _, path := range []string{"/api/panel", "/api/labels", "/api/labels/zone", "/api/status"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(r, path).Code, path)
	}
	assert.Equal(t, http.StatusOK, get(r, "/api/errors/1").Code, "错误码查询不依赖会话")
}

func TestReadOnlyRoutes_Auth(t *testing.T) {
	source := SnapshotFunc(func() (gateway.Snapshot, bool) { return testSnapshot(), true })
	r := newRouter(t, source, middleware.AuthConfig{APIKeys: []string{"k-123456789"}})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/panel").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/panel", "X-API-Key", "k-123456789").Code)
}

func TestRegisterReadOnlyRoutes_NilSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterReadOnlyRoutes(r, nil, middleware.AuthConfig{}, nil)
	assert.Empty(t, r.Routes())
}
