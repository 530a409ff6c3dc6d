package employee

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	employeeerrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/employee/errors"
)

type fakeRepo struct {
	createFn                    func(ctx context.Context, e *Employee) error
	findByIDFn                  func(ctx context.Context, id string) (*Employee, error)
	findByExternalIDFn          func(ctx context.Context, organizationID, externalID string) (*Employee, error)
	findAllByOrganizationFn     func(ctx context.Context, organizationID string) ([]Employee, error)
	updateFn                    func(ctx context.Context, e *Employee) error
	incrementUsedPtoDaysFn      func(ctx context.Context, id string, delta float64) error
	setUsedPtoDaysFn            func(ctx context.Context, id string, value float64) error
	setLastNotificationSentAtFn func(ctx context.Context, id string, at time.Time) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByExternalID(ctx context.Context, organizationID, externalID string) (*Employee, error) {
	return f.findByExternalIDFn(ctx, organizationID, externalID)
}
func (f *fakeRepo) FindAllByOrganization(ctx context.Context, organizationID string) ([]Employee, error) {
	return f.findAllByOrganizationFn(ctx, organizationID)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error {
	return f.updateFn(ctx, e)
}
func (f *fakeRepo) IncrementUsedPtoDays(ctx context.Context, id string, delta float64) error {
	return f.incrementUsedPtoDaysFn(ctx, id, delta)
}
func (f *fakeRepo) SetUsedPtoDays(ctx context.Context, id string, value float64) error {
	return f.setUsedPtoDaysFn(ctx, id, value)
}
func (f *fakeRepo) SetLastNotificationSentAt(ctx context.Context, id string, at time.Time) error {
	return f.setLastNotificationSentAtFn(ctx, id, at)
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

func TestService_GetOrCreate(t *testing.T) {
	gdb, _ := newGormMock(t)
	ctx := context.Background()
	orgID := uuid.New().String()

	t.Run("success creates on first sight", func(t *testing.T) {
		var created *Employee
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, organizationID, externalID string) (*Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, e *Employee) error {
				created = e
				return nil
			},
		}
		svc := NewService(gdb, repo)

		resp, err := svc.GetOrCreate(ctx, orgID, SyncEmployeeRequest{
			ExternalID: "U123", Name: "Jamie", Timezone: "Asia/Seoul",
		})
		assert.NoError(t, err)
		assert.Equal(t, "Asia/Seoul", created.Timezone)
		assert.Equal(t, float64(15), resp.AnnualPtoDays)
		assert.Equal(t, float64(15), resp.RemainingPtoDays)
	})

	t.Run("success returns existing without create", func(t *testing.T) {
		orgUUID := uuid.MustParse(orgID)
		existing := &Employee{ID: uuid.New(), OrganizationID: &orgUUID, ExternalID: "U123", Name: "Jamie"}
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, organizationID, externalID string) (*Employee, error) {
				return existing, nil
			},
			createFn: func(ctx context.Context, e *Employee) error {
				t.Fatal("must not create a second row for a known external id")
				return nil
			},
		}
		svc := NewService(gdb, repo)

		resp, err := svc.GetOrCreate(ctx, orgID, SyncEmployeeRequest{ExternalID: "U123"})
		assert.NoError(t, err)
		assert.Equal(t, existing.ID.String(), resp.ID)
	})

	t.Run("success empty timezone defaults to UTC", func(t *testing.T) {
		var created *Employee
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, organizationID, externalID string) (*Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, e *Employee) error {
				created = e
				return nil
			},
		}
		svc := NewService(gdb, repo)

		_, err := svc.GetOrCreate(ctx, orgID, SyncEmployeeRequest{ExternalID: "U456"})
		assert.NoError(t, err)
		assert.Equal(t, "UTC", created.Timezone)
	})

	t.Run("negative bogus timezone", func(t *testing.T) {
		repo := &fakeRepo{
			findByExternalIDFn: func(ctx context.Context, organizationID, externalID string) (*Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(gdb, repo)

		_, err := svc.GetOrCreate(ctx, orgID, SyncEmployeeRequest{
			ExternalID: "U789", Timezone: "Not/AZone",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidTimezone)
	})
}

func TestService_Update(t *testing.T) {
	gdb, mock := newGormMock(t)
	ctx := context.Background()

	existing := &Employee{ID: uuid.New(), Name: "Jamie", AnnualPtoDays: 15, UsedPtoDays: 3, Timezone: "UTC"}
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Employee, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, e *Employee) error { return nil },
	}
	svc := NewService(gdb, repo)

	t.Run("success partial patch", func(t *testing.T) {
		annual := 20.0
		admin := true
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Update(ctx, existing.ID.String(), UpdateEmployeeRequest{
			AnnualPtoDays: &annual, IsAdmin: &admin,
		})
		assert.NoError(t, err)
		assert.Equal(t, 20.0, resp.AnnualPtoDays)
		assert.True(t, resp.IsAdmin)
		assert.Equal(t, "Jamie", resp.Name)
		assert.Equal(t, 17.0, resp.RemainingPtoDays)
	})

	t.Run("negative allotment below zero", func(t *testing.T) {
		bad := -1.0
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Update(ctx, existing.ID.String(), UpdateEmployeeRequest{AnnualPtoDays: &bad})
		assert.ErrorIs(t, err, employeeerrors.ErrNegativeAnnualDays)
	})

	t.Run("negative invalid timezone", func(t *testing.T) {
		bad := "Mars/Olympus_Mons"
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Update(ctx, existing.ID.String(), UpdateEmployeeRequest{Timezone: &bad})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidTimezone)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", UpdateEmployeeRequest{})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
