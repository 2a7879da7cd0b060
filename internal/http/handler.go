package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"complaint-service/internal/http/middleware"
	"complaint-service/internal/model"
	"complaint-service/internal/service"
)

type Handler struct {
	lifecycle  *service.LifecycleService
	complaints *service.ComplaintService
	log        zerolog.Logger
}

func NewHandler(
	lifecycle *service.LifecycleService,
	complaints *service.ComplaintService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		lifecycle:  lifecycle,
		complaints: complaints,
		log:        log,
	}
}

func (h *Handler) createComplaint(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		Area        string   `json:"area"`
		Priority    string   `json:"priority"`
		Images      []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.ComplaintCategory(strings.ToUpper(strings.TrimSpace(req.Category))),
		Area:        req.Area,
		Priority:    model.ComplaintPriority(strings.ToUpper(strings.TrimSpace(req.Priority))),
		ImageURLs:   req.Images,
	}

	complaint, err := h.lifecycle.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(complaint))
}

func (h *Handler) listComplaints(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter, err := parseComplaintQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	views, err := h.complaints.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": views}))
}

func (h *Handler) getComplaint(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	view, err := h.complaints.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getTimeline(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	events, err := h.complaints.Timeline(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": events}))
}

func (h *Handler) assignSupervisor(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		SupervisorID string `json:"supervisor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	supervisorID, err := uuid.Parse(strings.TrimSpace(req.SupervisorID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid supervisor_id"))
		return
	}

	complaint, err := h.lifecycle.AssignToSupervisor(c.Request.Context(), principal, id, supervisorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) assignOfficerDirectly(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		OfficerID string `json:"officer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	officerID, err := uuid.Parse(strings.TrimSpace(req.OfficerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid officer_id"))
		return
	}

	complaint, err := h.lifecycle.AssignToOfficerDirectly(c.Request.Context(), principal, id, officerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) supervisorAssignOfficer(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		OfficerID string `json:"officer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	officerID, err := uuid.Parse(strings.TrimSpace(req.OfficerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid officer_id"))
		return
	}

	complaint, err := h.lifecycle.SupervisorAssignOfficer(c.Request.Context(), principal, id, officerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) reassign(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		AssigneeID   string `json:"assignee_id" binding:"required"`
		AssigneeRole string `json:"assignee_role" binding:"required"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	assigneeID, err := uuid.Parse(strings.TrimSpace(req.AssigneeID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid assignee_id"))
		return
	}
	role := model.UserRole(strings.ToUpper(strings.TrimSpace(req.AssigneeRole)))

	complaint, err := h.lifecycle.Reassign(c.Request.Context(), principal, id, assigneeID, role, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) escalate(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
		Level  int    `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.lifecycle.Escalate(c.Request.Context(), principal, id, req.Reason, req.Level)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) override(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	action := service.OverrideAction(strings.ToUpper(strings.TrimSpace(req.Action)))

	complaint, err := h.lifecycle.OverrideTransition(c.Request.Context(), principal, id, action, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) submitResolution(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Image   string `json:"image" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.lifecycle.OfficerSubmitResolution(c.Request.Context(), principal, id, req.Image, req.Remarks)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) verifyResolution(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Image   string `json:"image"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.lifecycle.SupervisorVerify(c.Request.Context(), principal, id, req.Image, req.Remarks)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) rejectResolution(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	complaint, err := h.lifecycle.SupervisorReject(c.Request.Context(), principal, id, req.Remarks)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) withdraw(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	complaint, err := h.lifecycle.CitizenWithdraw(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) updateComplaint(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Status   *string    `json:"status"`
		Priority *string    `json:"priority"`
		Category *string    `json:"category"`
		Remarks  *string    `json:"remarks"`
		DueBy    *time.Time `json:"due_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	patch := service.UpdatePatch{
		Remarks: req.Remarks,
		DueBy:   req.DueBy,
	}
	if req.Status != nil {
		status := model.ComplaintStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.ComplaintPriority(strings.ToUpper(strings.TrimSpace(*req.Priority)))
		patch.Priority = &priority
	}
	if req.Category != nil {
		category := model.ComplaintCategory(strings.ToUpper(strings.TrimSpace(*req.Category)))
		patch.Category = &category
	}

	complaint, err := h.lifecycle.GenericUpdate(c.Request.Context(), principal, id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(complaint))
}

func (h *Handler) addComment(c *gin.Context) {
	principal, id, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	comment, err := h.lifecycle.AddComment(c.Request.Context(), principal, id, req.Text)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(comment))
}

func (h *Handler) queryAudit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	filter, err := parseAuditQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	entries, err := h.complaints.QueryAudit(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}

func (h *Handler) principalAndID(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return model.Principal{}, uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid complaint id"))
		return model.Principal{}, uuid.Nil, false
	}
	return principal, id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidAssignee):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNoSupervisorAvailable):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseComplaintQuery(c *gin.Context) (service.ComplaintFilter, error) {
	var filter service.ComplaintFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			filter.Statuses = append(filter.Statuses, model.ComplaintStatus(strings.ToUpper(val)))
		}
	}
	if priorityParam := c.Query("priority"); priorityParam != "" {
		for _, val := range splitCSV(priorityParam) {
			filter.Priorities = append(filter.Priorities, model.ComplaintPriority(strings.ToUpper(val)))
		}
	}
	if categoryParam := c.Query("category"); categoryParam != "" {
		for _, val := range splitCSV(categoryParam) {
			filter.Categories = append(filter.Categories, model.ComplaintCategory(strings.ToUpper(val)))
		}
	}
	filter.Area = strings.TrimSpace(c.Query("area"))

	if reporterID := strings.TrimSpace(c.Query("reporter_id")); reporterID != "" {
		id, err := uuid.Parse(reporterID)
		if err != nil {
			return filter, err
		}
		filter.ReporterID = &id
	}
	if supervisorID := strings.TrimSpace(c.Query("supervisor_id")); supervisorID != "" {
		id, err := uuid.Parse(supervisorID)
		if err != nil {
			return filter, err
		}
		filter.SupervisorID = &id
	}
	if officerID := strings.TrimSpace(c.Query("officer_id")); officerID != "" {
		id, err := uuid.Parse(officerID)
		if err != nil {
			return filter, err
		}
		filter.OfficerID = &id
	}
	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &ts
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filter.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			filter.Offset = v
		}
	}

	return filter, nil
}

func parseAuditQuery(c *gin.Context) (service.AuditFilter, error) {
	var filter service.AuditFilter

	if actorID := strings.TrimSpace(c.Query("actor_id")); actorID != "" {
		id, err := uuid.Parse(actorID)
		if err != nil {
			return filter, err
		}
		filter.ActorID = &id
	}
	if complaintID := strings.TrimSpace(c.Query("complaint_id")); complaintID != "" {
		id, err := uuid.Parse(complaintID)
		if err != nil {
			return filter, err
		}
		filter.ComplaintID = &id
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		r := model.UserRole(strings.ToUpper(role))
		filter.ActorRole = &r
	}
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		a := model.AuditAction(strings.ToUpper(action))
		filter.Action = &a
	}
	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &ts
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filter.Limit = v
		}
	}

	return filter, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
