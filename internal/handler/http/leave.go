package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/handler/http/middleware"
	"github.com/hrms-platform/leave-service-go/internal/handler/http/response"
)

type LeaveHandler interface {
	CreateMine(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	CancelMine(w http.ResponseWriter, r *http.Request)

	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)

	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.Service
}

func NewLeaveHandler(leaveService leave.Service) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateMine implements LeaveHandler.
func (h *LeaveHandlerImpl) CreateMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req leave.CreateSelfLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.CreateSelf(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// ListMine implements LeaveHandler.
func (h *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := filterFromQuery(r)
	leaves, total, err := h.leaveService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leaves, selfListMeta(filter, total))
}

// CancelMine implements LeaveHandler.
func (h *LeaveHandlerImpl) CancelMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	cancelled, err := h.leaveService.CancelOwn(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", cancelled)
}

// ListPending implements LeaveHandler.
func (h *LeaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := filterFromQuery(r)
	leaves, total, err := h.leaveService.ListPending(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leaves, listMeta(filter, total))
}

// Approve implements LeaveHandler.
func (h *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	// Body is optional; approval needs no payload.
	var req leave.ApproveLeaveRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	approved, err := h.leaveService.Approve(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", approved)
}

// Reject implements LeaveHandler.
func (h *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	var req leave.RejectLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rejected, err := h.leaveService.Reject(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", rejected)
}

// Create implements LeaveHandler.
func (h *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.CreateForEmployee(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := filterFromQuery(r)
	leaves, total, err := h.leaveService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leaves, listMeta(filter, total))
}

// ListAll implements LeaveHandler.
func (h *LeaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := filterFromQuery(r)
	leaves, total, err := h.leaveService.ListAll(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leaves, listMeta(filter, total))
}

// ListByEmployee implements LeaveHandler.
func (h *LeaveHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || employeeID <= 0 {
		response.BadRequest(w, "Employee ID must be a positive integer", nil)
		return
	}

	filter := filterFromQuery(r)
	leaves, total, err := h.leaveService.ListByEmployee(r.Context(), actor, employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, leaves, listMeta(filter, total))
}

// Get implements LeaveHandler.
func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	result, err := h.leaveService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements LeaveHandler.
func (h *LeaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	var req leave.UpdateLeaveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.leaveService.UpdateStatus(r.Context(), actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave status updated successfully", updated)
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := leaveIDParam(r)
	if err != nil {
		response.BadRequest(w, "Leave request ID must be a positive integer", nil)
		return
	}

	cancelled, err := h.leaveService.CancelByHR(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", cancelled)
}

func leaveIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

func filterFromQuery(r *http.Request) leave.ListLeaveFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return leave.ListLeaveFilter{
		Status:    q.Get("status"),
		LeaveType: q.Get("leave_type"),
		Page:      page,
		Limit:     limit,
	}
}

func listMeta(filter leave.ListLeaveFilter, total int64) *response.Meta {
	return listMetaCapped(filter, total, 200)
}

// Self-service listings clamp to a lower page size.
func selfListMeta(filter leave.ListLeaveFilter, total int64) *response.Meta {
	return listMetaCapped(filter, total, 100)
}

func listMetaCapped(filter leave.ListLeaveFilter, total int64, maxLimit int) *response.Meta {
	filter.Normalize(maxLimit)
	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	return &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
