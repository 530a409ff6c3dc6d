package organization

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	organizationerrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/organization/errors"
)

type fakeRepo struct {
	createFn           func(ctx context.Context, o *Organization) error
	findByIDFn         func(ctx context.Context, id string) (*Organization, error)
	findByExternalIDFn func(ctx context.Context, externalID string, withDeleted bool) (*Organization, error)
	updateFn           func(ctx context.Context, o *Organization) error
	restoreFn          func(ctx context.Context, id string) error
	softDeleteFn       func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, o *Organization) error {
	return f.createFn(ctx, o)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Organization, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByExternalID(ctx context.Context, externalID string, withDeleted bool) (*Organization, error) {
	return f.findByExternalIDFn(ctx, externalID, withDeleted)
}
func (f *fakeRepo) Update(ctx context.Context, o *Organization) error {
	return f.updateFn(ctx, o)
}
func (f *fakeRepo) Restore(ctx context.Context, id string) error {
	return f.restoreFn(ctx, id)
}
func (f *fakeRepo) SoftDelete(ctx context.Context, id string) error {
	return f.softDeleteFn(ctx, id)
}

type fakeSeeder struct {
	seeded []string
}

func (f *fakeSeeder) SeedDefaults(ctx context.Context, organizationID string) error {
	f.seeded = append(f.seeded, organizationID)
	return nil
}

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestService_Install(t *testing.T) {
	ctx := context.Background()

	t.Run("success fresh install seeds templates", func(t *testing.T) {
		gdb, mock := newGormMock(t)

		var created *Organization
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, externalID string, withDeleted bool) (*Organization, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, o *Organization) error {
				created = o
				return nil
			},
		}
		seeder := &fakeSeeder{}
		svc := NewService(gdb, repo, seeder)

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Install(ctx, InstallRequest{
			ExternalID: "T123", Name: "Acme", InstallationData: `{"token":"xoxb"}`,
		})
		assert.NoError(t, err)
		assert.False(t, resp.Restored)
		assert.Equal(t, created.ID.String(), resp.ID)
		assert.Equal(t, []string{resp.ID}, seeder.seeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success reinstall restores without reseeding", func(t *testing.T) {
		gdb, mock := newGormMock(t)

		existing := &Organization{
			ID:         uuid.New(),
			ExternalID: "T123",
			Name:       "Acme (old)",
			DeletedAt:  gorm.DeletedAt{Time: time.Now(), Valid: true},
		}
		var restoredID string
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, externalID string, withDeleted bool) (*Organization, error) {
				assert.True(t, withDeleted)
				return existing, nil
			},
			restoreFn: func(ctx context.Context, id string) error {
				restoredID = id
				return nil
			},
			updateFn: func(ctx context.Context, o *Organization) error { return nil },
		}
		seeder := &fakeSeeder{}
		svc := NewService(gdb, repo, seeder)

		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Install(ctx, InstallRequest{
			ExternalID: "T123", Name: "Acme", InstallationData: `{"token":"xoxb2"}`,
		})
		assert.NoError(t, err)
		assert.True(t, resp.Restored)
		assert.Equal(t, existing.ID.String(), restoredID)
		assert.Equal(t, "Acme", resp.Name)
		assert.Empty(t, seeder.seeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative missing external id", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, &fakeRepo{}, &fakeSeeder{})

		_, err := svc.Install(ctx, InstallRequest{Name: "Acme"})
		assert.ErrorIs(t, err, organizationerrors.ErrExternalIDRequired)
	})
}

func TestService_Uninstall(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.Background()

	existing := &Organization{ID: uuid.New(), ExternalID: "T123", Name: "Acme"}

	var deletedID string
	repo := &fakeRepo{
		findByExternalIDFn: func(ctx context.Context, externalID string, withDeleted bool) (*Organization, error) {
			if externalID == existing.ExternalID {
				return existing, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		softDeleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(gdb, repo, &fakeSeeder{})

	assert.NoError(t, svc.Uninstall(ctx, "T123"))
	assert.Equal(t, existing.ID.String(), deletedID)

	err := svc.Uninstall(ctx, "T999")
	assert.ErrorIs(t, err, organizationerrors.ErrOrganizationNotFound)
}

func TestService_Deactivate(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.Background()

	existing := &Organization{ID: uuid.New(), ExternalID: "T123"}

	var deletedID string
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Organization, error) {
			if id == existing.ID.String() {
				return existing, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		softDeleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(gdb, repo, &fakeSeeder{})

	assert.NoError(t, svc.Deactivate(ctx, existing.ID.String()))
	assert.Equal(t, existing.ID.String(), deletedID)

	t.Run("negative unknown organization", func(t *testing.T) {
		err := svc.Deactivate(ctx, uuid.New().String())
		assert.ErrorIs(t, err, organizationerrors.ErrOrganizationNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		err := svc.Deactivate(ctx, "nope")
		assert.ErrorIs(t, err, organizationerrors.ErrInvalidOrganizationID)
	})
}
