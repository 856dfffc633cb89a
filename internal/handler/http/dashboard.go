package http

import (
	"net/http"

	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/handler/http/middleware"
	"github.com/hrms-platform/leave-service-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	OnLeaveToday(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	dashboardService leave.DashboardService
}

func NewDashboardHandler(dashboardService leave.DashboardService) DashboardHandler {
	return &DashboardHandlerImpl{dashboardService: dashboardService}
}

// Summary implements DashboardHandler.
func (h *DashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// OnLeaveToday implements DashboardHandler.
func (h *DashboardHandlerImpl) OnLeaveToday(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.dashboardService.OnLeaveToday(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
