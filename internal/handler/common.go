package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/service"
	"fleet-dashboard/pkg/utils"
)

func statusFor(err error) int {
	var apiErr *utils.APIError
	switch {
	case errors.Is(err, service.ErrUnknownNode), errors.Is(err, service.ErrUnknownRouter):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPanelDisposed):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrModalSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.Code == utils.CodeValidation:
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.Code == utils.CodeSystem:
		return http.StatusInternalServerError
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorResponse(err error) model.ErrorResponse {
	var apiErr *utils.APIError
	if errors.As(err, &apiErr) {
		return model.ErrorResponse{
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
	}
	return model.ErrorResponse{
		Success: false,
		Message: err.Error(),
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Code:    utils.CodeValidation,
		Message: "invalid request parameters",
		Details: err.Error(),
	})
}
