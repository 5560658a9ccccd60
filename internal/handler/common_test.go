package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fleet-dashboard/internal/service"
	"fleet-dashboard/pkg/utils"
)

func TestStatusFor(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown node", fmt.Errorf("%w: ghost", service.ErrUnknownNode), http.StatusNotFound},
		{"unknown router", fmt.Errorf("%w: dr9", service.ErrUnknownRouter), http.StatusNotFound},
		{"disposed", service.ErrPanelDisposed, http.StatusServiceUnavailable},
		{"superseded", service.ErrModalSuperseded, http.StatusConflict},
		{"timeout", utils.NewListFetchError(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"validation", utils.NewValidationError("action", "x"), http.StatusBadRequest},
		{"upstream", utils.NewTransitionError("node1", "start", boom), http.StatusBadGateway},
		{"system", utils.NewSystemError(boom), http.StatusInternalServerError},
		{"plain", boom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCSRFMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{"get passes", http.MethodGet, "", "", http.StatusNoContent},
		{"no cookie", http.MethodPost, "", "abc", http.StatusForbidden},
		{"no header", http.MethodPost, "abc", "", http.StatusForbidden},
		{"mismatch", http.MethodPost, "abc", "abd", http.StatusForbidden},
		{"match", http.MethodPost, "abc", "abc", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestIssueCSRFTokenReusesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "existing"})

	if got := issueCSRFToken(c); got != "existing" {
		t.Fatalf("token = %q", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("reissued a cookie the caller already has")
	}
}
