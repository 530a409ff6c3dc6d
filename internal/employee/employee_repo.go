package employee

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/tenant"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByExternalID(ctx context.Context, organizationID, externalID string) (*Employee, error)
	FindAllByOrganization(ctx context.Context, organizationID string) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	IncrementUsedPtoDays(ctx context.Context, id string, delta float64) error
	SetUsedPtoDays(ctx context.Context, id string, value float64) error
	SetLastNotificationSentAt(ctx context.Context, id string, at time.Time) error
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByExternalID(ctx context.Context, organizationID, externalID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&e, "external_id = ?", externalID).Error
	return &e, err
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// IncrementUsedPtoDays applies the balance delta atomically in SQL so
// concurrent approvals on different requests never lose an update.
func (r *repository) IncrementUsedPtoDays(ctx context.Context, id string, delta float64) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		UpdateColumn("used_pto_days", gorm.Expr("used_pto_days + ?", delta)).Error
}

func (r *repository) SetUsedPtoDays(ctx context.Context, id string, value float64) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		UpdateColumn("used_pto_days", value).Error
}

func (r *repository) SetLastNotificationSentAt(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		UpdateColumn("last_notification_sent_at", at.UTC()).Error
}
