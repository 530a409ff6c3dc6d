package ptorequest

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/tenant"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRequest(ctx context.Context, r *PtoRequest) error
	FindRequestByID(ctx context.Context, id string) (*PtoRequest, error)
	FindApprovalByID(ctx context.Context, id string) (*PtoApproval, error)

	// Conditional transition: returns the number of rows moved out of
	// PENDING, so a race loser observes zero and backs off.
	UpdateApprovalStatusIfPending(ctx context.Context, id, status string, comment *string, actionDate time.Time) (int64, error)
	RejectOtherPendingApprovals(ctx context.Context, requestID, excludeApprovalID string, actionDate time.Time) error
	UpdateRequestStatus(ctx context.Context, id, status string) error
	SetCurrentApproval(ctx context.Context, requestID, approvalID string) error

	FindAllByEmployee(ctx context.Context, employeeID string) ([]PtoRequest, error)
	FindPendingApprovalsForApprover(ctx context.Context, approverID string) ([]PtoApproval, error)
	FindByOrganizationOverlapping(ctx context.Context, organizationID string, rangeStart, rangeEnd time.Time) ([]PtoRequest, error)
	FindCurrentPendingApprovals(ctx context.Context) ([]PtoApproval, error)

	SoftDeleteApprovalsByRequest(ctx context.Context, requestID string) error
	SoftDeleteRequest(ctx context.Context, requestID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, req *PtoRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindRequestByID(ctx context.Context, id string) (*PtoRequest, error) {
	var req PtoRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Template", func(db *gorm.DB) *gorm.DB {
			// Soft-deleted templates stay referenceable for history.
			return db.Unscoped()
		}).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Approvals.Approver").
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindApprovalByID(ctx context.Context, id string) (*PtoApproval, error) {
	var a PtoApproval
	err := r.db.WithContext(ctx).
		Preload("Approver").
		Preload("Request").
		Preload("Request.Employee").
		Preload("Request.Template", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Request.Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) UpdateApprovalStatusIfPending(ctx context.Context, id, status string, comment *string, actionDate time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&PtoApproval{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":      status,
			"comment":     comment,
			"action_date": actionDate,
		})
	return res.RowsAffected, res.Error
}

// RejectOtherPendingApprovals cascades a rejection: every remaining
// pending approval gets an action date but no comment, since only the
// acting approval carries the human-entered one.
func (r *repository) RejectOtherPendingApprovals(ctx context.Context, requestID, excludeApprovalID string, actionDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&PtoApproval{}).
		Where("request_id = ?", requestID).
		Where("id <> ?", excludeApprovalID).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":      StatusRejected,
			"action_date": actionDate,
		}).Error
}

func (r *repository) UpdateRequestStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&PtoRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) SetCurrentApproval(ctx context.Context, requestID, approvalID string) error {
	return r.db.WithContext(ctx).
		Model(&PtoRequest{}).
		Where("id = ?", requestID).
		Update("current_approval_id", approvalID).Error
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]PtoRequest, error) {
	var requests []PtoRequest
	err := r.db.WithContext(ctx).
		Preload("Template", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Approvals.Approver").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

// FindPendingApprovalsForApprover returns approvals where the approval
// is the request's *current* one. Approvers later in the chain do not
// see the request until it reaches them.
func (r *repository) FindPendingApprovalsForApprover(ctx context.Context, approverID string) ([]PtoApproval, error) {
	var approvals []PtoApproval
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.Employee").
		Preload("Request.Template", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Joins("JOIN pto_requests ON pto_requests.id = pto_approvals.request_id").
		Where("pto_approvals.approver_id = ?", approverID).
		Where("pto_approvals.status = ?", StatusPending).
		Where("pto_requests.current_approval_id = pto_approvals.id").
		Where("pto_requests.status = ?", StatusPending).
		Where("pto_requests.deleted_at IS NULL").
		Order("pto_approvals.created_at ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) FindByOrganizationOverlapping(ctx context.Context, organizationID string, rangeStart, rangeEnd time.Time) ([]PtoRequest, error) {
	var requests []PtoRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Template", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Scopes(tenant.Scope(organizationID)).
		Where("start_date <= ? AND end_date >= ?", rangeEnd, rangeStart).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

// FindCurrentPendingApprovals feeds the notification sweep: every
// current approval of a pending request, with its approver loaded.
func (r *repository) FindCurrentPendingApprovals(ctx context.Context) ([]PtoApproval, error) {
	var approvals []PtoApproval
	err := r.db.WithContext(ctx).
		Preload("Approver").
		Joins("JOIN pto_requests ON pto_requests.id = pto_approvals.request_id").
		Where("pto_approvals.status = ?", StatusPending).
		Where("pto_requests.current_approval_id = pto_approvals.id").
		Where("pto_requests.status = ?", StatusPending).
		Where("pto_requests.deleted_at IS NULL").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) SoftDeleteApprovalsByRequest(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&PtoApproval{}).Error
}

func (r *repository) SoftDeleteRequest(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Delete(&PtoRequest{}, "id = ?", requestID).Error
}
