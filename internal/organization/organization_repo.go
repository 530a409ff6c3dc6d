package organization

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=organization_repo.go -destination=mock/organization_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, o *Organization) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindByExternalID(ctx context.Context, externalID string, withDeleted bool) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	Restore(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, o *Organization) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Organization, error) {
	var o Organization
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string, withDeleted bool) (*Organization, error) {
	db := r.db.WithContext(ctx)
	if withDeleted {
		db = db.Unscoped()
	}

	var o Organization
	err := db.First(&o, "external_id = ?", externalID).Error
	return &o, err
}

func (r *repository) Update(ctx context.Context, o *Organization) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *repository) Restore(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Model(&Organization{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Organization{}, "id = ?", id).Error
}
