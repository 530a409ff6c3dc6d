package ptorequest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/apperror"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ptorequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ptorequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("pto request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	organizationID := c.GetString("org_id")
	employeeID := c.GetString("employee_id")

	var req CreatePtoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), organizationID, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decisionFunc func(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ApprovalResponse, error)

func (h *Handler) decide(c *gin.Context, decision decisionFunc) {
	approvalID := c.Param("id")
	actorID := c.GetString("employee_id")
	actorIsAdmin := c.GetBool("is_admin")

	// Body is optional; decisions without a comment are common.
	var req DecisionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := decision(c.Request.Context(), actorID, actorIsAdmin, approvalID, req.Comment)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MyRequests(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.MyRequests(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) PendingApprovals(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	resp, err := h.service.PendingApprovalsFor(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) OrganizationMonth(c *gin.Context) {
	organizationID := c.GetString("org_id")

	year, _ := strconv.Atoi(c.Query("year"))
	monthNum, _ := strconv.Atoi(c.Query("month"))
	if monthNum < 0 || monthNum > 12 {
		monthNum = 0
	}

	resp, err := h.service.OrganizationRequestsForMonth(c.Request.Context(), organizationID, year, time.Month(monthNum))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.Delete(c.Request.Context(), c.GetString("org_id"), c.GetString("employee_id"), c.GetBool("is_admin"), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
