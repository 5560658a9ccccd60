package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet-dashboard/internal/service"
	"fleet-dashboard/internal/web"
)

type PageHandler struct {
	panel    *service.FleetPanel
	title    string
	interval time.Duration
}

func NewPageHandler(panel *service.FleetPanel, title string, interval time.Duration) *PageHandler {
	return &PageHandler{panel: panel, title: title, interval: interval}
}

func (h *PageHandler) Index(c *gin.Context) {
	token := issueCSRFToken(c)
	c.HTML(http.StatusOK, web.PageName, web.PageData{
		Title:      h.title,
		CSRFToken:  token,
		CSRFHeader: CSRFHeader,
		PollMs:     int(h.interval / time.Millisecond),
		View:       h.panel.View(),
	})
}
