package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/labels"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/internal/service"
	"fleet-dashboard/pkg/utils"
)

type FleetHandler struct {
	panel    *service.FleetPanel
	resolver *labels.Resolver
	logger   *logger.Logger
}

func NewFleetHandler(panel *service.FleetPanel, log *logger.Logger) *FleetHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &FleetHandler{
		panel:    panel,
		resolver: labels.NewResolver(log.Logger),
		logger:   log,
	}
}

func (h *FleetHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.panel.View())
}

// Refresh runs one poll cycle out of band. A cycle overtaken by a newer
// one is not an error for the caller; the newer view is returned.
func (h *FleetHandler) Refresh(c *gin.Context) {
	if _, err := h.panel.Refresh(c.Request.Context()); err != nil && !errors.Is(err, service.ErrStaleCycle) {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.panel.View())
}

func (h *FleetHandler) DispatchNode(c *gin.Context) {
	var req model.NodeActionRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateNodeName(req.Name); err != nil {
		badRequest(c, err)
		return
	}
	action, ok := h.resolver.Action(req.Action)
	if !ok {
		abortWithError(c, utils.NewValidationError("action", req.Action))
		return
	}

	if err := h.panel.Dispatch(c.Request.Context(), req.Name, action); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DispatchResponse{
		Success: true,
		Message: fmt.Sprintf("%s sent to %s", action, req.Name),
		Results: []model.DispatchResult{{Node: req.Name, Action: action.String(), Success: true}},
	})
}

func (h *FleetHandler) DispatchAll(c *gin.Context) {
	var req model.FleetActionRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}
	action, ok := h.resolver.Action(req.Action)
	if !ok {
		abortWithError(c, utils.NewValidationError("action", req.Action))
		return
	}

	results, err := h.panel.DispatchAll(c.Request.Context(), action)
	if err != nil {
		abortWithError(c, err)
		return
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	c.JSON(http.StatusOK, model.DispatchResponse{
		Success: failed == 0,
		Message: fmt.Sprintf("%s sent to %d nodes, %d failed", action, len(results), failed),
		Results: results,
	})
}

func (h *FleetHandler) OpenLog(c *gin.Context) {
	var req model.NodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateNodeName(req.Name); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.panel.OpenLog(c.Request.Context(), req.Name); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.panel.LogState())
}

func (h *FleetHandler) OpenRouterLog(c *gin.Context) {
	var req model.NodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateNodeName(req.Name); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.panel.OpenRouterLog(c.Request.Context(), req.Name); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.panel.LogState())
}

func (h *FleetHandler) GetLog(c *gin.Context) {
	c.JSON(http.StatusOK, h.panel.LogState())
}

func (h *FleetHandler) CloseLog(c *gin.Context) {
	h.panel.CloseLog()
	c.JSON(http.StatusOK, h.panel.LogState())
}

func (h *FleetHandler) DismissError(c *gin.Context) {
	h.panel.DismissError()
	c.JSON(http.StatusOK, h.panel.View())
}

func (h *FleetHandler) Health(c *gin.Context) {
	snapshot := h.panel.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"active": h.panel.Active(),
		"cycle":  snapshot.Cycle,
		"nodes":  snapshot.Len(),
		"stats":  h.panel.Stats(),
	})
}
