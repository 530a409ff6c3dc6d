package ptorequest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
	requesterrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest/errors"
)

type fakeService struct {
	createFn              func(ctx context.Context, organizationID, requesterID string, req ptorequest.CreatePtoRequest) (ptorequest.RequestResponse, error)
	approveFn             func(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ptorequest.ApprovalResponse, error)
	rejectFn              func(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ptorequest.ApprovalResponse, error)
	deleteFn              func(ctx context.Context, organizationID, actorID string, actorIsAdmin bool, requestID string) (ptorequest.DeleteResponse, error)
	myRequestsFn          func(ctx context.Context, employeeID string) ([]ptorequest.RequestResponse, error)
	pendingApprovalsForFn func(ctx context.Context, approverID string) ([]ptorequest.ApprovalResponse, error)
	orgMonthFn            func(ctx context.Context, organizationID string, year int, month time.Month) ([]ptorequest.RequestResponse, error)
}

func (f *fakeService) Create(ctx context.Context, organizationID, requesterID string, req ptorequest.CreatePtoRequest) (ptorequest.RequestResponse, error) {
	return f.createFn(ctx, organizationID, requesterID, req)
}
func (f *fakeService) Approve(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ptorequest.ApprovalResponse, error) {
	return f.approveFn(ctx, actorID, actorIsAdmin, approvalID, comment)
}
func (f *fakeService) Reject(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ptorequest.ApprovalResponse, error) {
	return f.rejectFn(ctx, actorID, actorIsAdmin, approvalID, comment)
}
func (f *fakeService) Delete(ctx context.Context, organizationID, actorID string, actorIsAdmin bool, requestID string) (ptorequest.DeleteResponse, error) {
	return f.deleteFn(ctx, organizationID, actorID, actorIsAdmin, requestID)
}
func (f *fakeService) MyRequests(ctx context.Context, employeeID string) ([]ptorequest.RequestResponse, error) {
	return f.myRequestsFn(ctx, employeeID)
}
func (f *fakeService) PendingApprovalsFor(ctx context.Context, approverID string) ([]ptorequest.ApprovalResponse, error) {
	return f.pendingApprovalsForFn(ctx, approverID)
}
func (f *fakeService) OrganizationRequestsForMonth(ctx context.Context, organizationID string, year int, month time.Month) ([]ptorequest.RequestResponse, error) {
	return f.orgMonthFn(ctx, organizationID, year, month)
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orgID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New().String()
	templateID := uuid.New().String()

	svc := &fakeService{
		createFn: func(ctx context.Context, oid, eid string, req ptorequest.CreatePtoRequest) (ptorequest.RequestResponse, error) {
			assert.Equal(t, orgID, oid)
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, []string{approverID}, req.ApproverIDs)
			return ptorequest.RequestResponse{ID: uuid.New().String(), Status: ptorequest.StatusPending}, nil
		},
	}
	h := ptorequest.NewHandler(svc)

	body := `{
		"template_id": "` + templateID + `",
		"start_date": "2026-09-07",
		"end_date": "2026-09-08",
		"title": "Trip",
		"approver_ids": ["` + approverID + `"]
	}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("org_id", orgID)
	c.Set("employee_id", employeeID)
	c.Request = httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestHandler_Create_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := ptorequest.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("org_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(`{"title":"no template"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	approvalID := uuid.New().String()

	t.Run("success with comment", func(t *testing.T) {
		svc := &fakeService{
			approveFn: func(ctx context.Context, aid string, isAdmin bool, apid, comment string) (ptorequest.ApprovalResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.False(t, isAdmin)
				assert.Equal(t, approvalID, apid)
				assert.Equal(t, "fine by me", comment)
				return ptorequest.ApprovalResponse{ID: apid, Status: ptorequest.StatusApproved}, nil
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", actorID)
		c.Params = gin.Params{{Key: "id", Value: approvalID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/pto/approvals/"+approvalID+"/approve", strings.NewReader(`{"comment":"fine by me"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success empty body", func(t *testing.T) {
		svc := &fakeService{
			approveFn: func(ctx context.Context, aid string, isAdmin bool, apid, comment string) (ptorequest.ApprovalResponse, error) {
				assert.Empty(t, comment)
				return ptorequest.ApprovalResponse{ID: apid, Status: ptorequest.StatusApproved}, nil
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", actorID)
		c.Params = gin.Params{{Key: "id", Value: approvalID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/pto/approvals/"+approvalID+"/approve", nil)
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative not the owner", func(t *testing.T) {
		svc := &fakeService{
			approveFn: func(ctx context.Context, aid string, isAdmin bool, apid, comment string) (ptorequest.ApprovalResponse, error) {
				return ptorequest.ApprovalResponse{}, requesterrors.ErrNotApprovalOwner
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", actorID)
		c.Params = gin.Params{{Key: "id", Value: approvalID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/pto/approvals/"+approvalID+"/approve", nil)
		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative already processed", func(t *testing.T) {
		svc := &fakeService{
			rejectFn: func(ctx context.Context, aid string, isAdmin bool, apid, comment string) (ptorequest.ApprovalResponse, error) {
				return ptorequest.ApprovalResponse{}, requesterrors.ErrApprovalAlreadyProcessed
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("employee_id", actorID)
		c.Params = gin.Params{{Key: "id", Value: approvalID}}
		c.Request = httptest.NewRequest(http.MethodPost, "/pto/approvals/"+approvalID+"/reject", nil)
		h.Reject(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
	})
}

func TestHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orgID := uuid.New().String()
	employeeID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success passes caller identity", func(t *testing.T) {
		svc := &fakeService{
			deleteFn: func(ctx context.Context, oid, aid string, isAdmin bool, rid string) (ptorequest.DeleteResponse, error) {
				assert.Equal(t, orgID, oid)
				assert.Equal(t, employeeID, aid)
				assert.True(t, isAdmin)
				assert.Equal(t, requestID, rid)
				return ptorequest.DeleteResponse{Deleted: true}, nil
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("org_id", orgID)
		c.Set("employee_id", employeeID)
		c.Set("is_admin", true)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/pto/requests/"+requestID, nil)
		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative not the requester", func(t *testing.T) {
		svc := &fakeService{
			deleteFn: func(ctx context.Context, oid, aid string, isAdmin bool, rid string) (ptorequest.DeleteResponse, error) {
				return ptorequest.DeleteResponse{}, requesterrors.ErrNotRequestOwner
			},
		}
		h := ptorequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("org_id", orgID)
		c.Set("employee_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/pto/requests/"+requestID, nil)
		h.Delete(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})
}

func TestHandler_OrganizationMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orgID := uuid.New().String()

	svc := &fakeService{
		orgMonthFn: func(ctx context.Context, oid string, year int, month time.Month) ([]ptorequest.RequestResponse, error) {
			assert.Equal(t, 2026, year)
			assert.Equal(t, time.September, month)
			return []ptorequest.RequestResponse{{ID: uuid.New().String()}}, nil
		},
	}
	h := ptorequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("org_id", orgID)
	c.Request = httptest.NewRequest(http.MethodGet, "/pto/requests/month?year=2026&month=9", nil)
	h.OrganizationMonth(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
