package ptotemplate

import (
	"context"

	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/tenant"
)

//go:generate mockgen -source=template_repo.go -destination=mock/template_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *PtoTemplate) error
	FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*PtoTemplate, error)
	FindAllByOrganization(ctx context.Context, organizationID string, enabledOnly bool) ([]PtoTemplate, error)
	Update(ctx context.Context, t *PtoTemplate) error
	Delete(ctx context.Context, organizationID, id string) error
	CountByOrganization(ctx context.Context, organizationID string) (int64, error)
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

func (r *repository) Create(ctx context.Context, t *PtoTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByIDAndOrganization(ctx context.Context, organizationID, id string) (*PtoTemplate, error) {
	var t PtoTemplate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string, enabledOnly bool) ([]PtoTemplate, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(organizationID))
	if enabledOnly {
		db = db.Where("enabled = ?", true)
	}

	var templates []PtoTemplate
	err := db.Order("created_at ASC").Find(&templates).Error
	return templates, err
}

func (r *repository) Update(ctx context.Context, t *PtoTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Delete(&PtoTemplate{}, "id = ?", id).Error
}

func (r *repository) CountByOrganization(ctx context.Context, organizationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PtoTemplate{}).
		Scopes(tenant.Scope(organizationID)).
		Count(&count).Error
	return count, err
}
