package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return resp
}

func TestOKPage_HasMore(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, []int{1, 2}, 5, 1, 2)

	resp := decode(t, w)
	if !resp.Success || resp.Meta == nil {
		t.Fatal("期望 success=true 且带 meta")
	}
	if !resp.Meta.HasMore {
		t.Error("第1页/共5条/每页2条，应 hasMore=true")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	OKPage(c, []int{5}, 5, 3, 2)
	if decode(t, w).Meta.HasMore {
		t.Error("最后一页应 hasMore=false")
	}
}

func TestErrorWithDetails_DebugToggle(t *testing.T) {
	SetDebug(false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Unavailable(c, CodeUnavailable, errors.New("dial tcp: refused"))

	resp := decode(t, w)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望 503，实际 %d", w.Code)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != CodeUnavailable {
		t.Fatalf("错误信封不正确: %+v", resp)
	}
	if resp.Error.Details != nil {
		t.Error("非 debug 模式不应输出 details")
	}

	SetDebug(true)
	defer SetDebug(false)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Unavailable(c, CodeUnavailable, errors.New("dial tcp: refused"))
	if decode(t, w).Error.Details == nil {
		t.Error("debug 模式应输出 details")
	}
}
