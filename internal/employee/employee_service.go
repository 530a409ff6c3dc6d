package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/employee/errors"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetOrCreate(ctx context.Context, organizationID string, req SyncEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetAll(ctx context.Context, organizationID string) ([]EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type service struct {
	gdb    *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(gdb *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{gdb: gdb, repo: repo, logger: l}
}

// GetOrCreate upserts an employee from the workspace directory. The
// chat layer calls this whenever it sees a user for the first time.
func (s *service) GetOrCreate(ctx context.Context, organizationID string, req SyncEmployeeRequest) (EmployeeResponse, error) {
	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidOrganizationID
	}

	existing, err := s.repo.FindByExternalID(ctx, organizationID, req.ExternalID)
	if err == nil {
		return mapToResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeResponse{}, err
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidTimezone
	}

	e := &Employee{
		ID:             uuid.New(),
		OrganizationID: &orgUUID,
		ExternalID:     req.ExternalID,
		Name:           req.Name,
		Timezone:       tz,
		AnnualPtoDays:  15,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee failed",
			zap.String("organization_id", organizationID),
			zap.String("external_id", req.ExternalID),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("organization_id", organizationID),
		zap.String("external_id", req.ExternalID),
	)
	return mapToResponse(e), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(e), nil
}

func (s *service) GetAll(ctx context.Context, organizationID string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = mapToResponse(&employees[i])
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	var updated *Employee
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return err
		}

		if req.Name != nil {
			e.Name = *req.Name
		}
		if req.IsAdmin != nil {
			e.IsAdmin = *req.IsAdmin
		}
		if req.AnnualPtoDays != nil {
			if *req.AnnualPtoDays < 0 {
				return employeeerrors.ErrNegativeAnnualDays
			}
			e.AnnualPtoDays = *req.AnnualPtoDays
		}
		if req.UsedPtoDays != nil {
			if *req.UsedPtoDays < 0 {
				return employeeerrors.ErrNegativeUsedDays
			}
			e.UsedPtoDays = *req.UsedPtoDays
		}
		if req.Timezone != nil {
			if _, err := time.LoadLocation(*req.Timezone); err != nil {
				return employeeerrors.ErrInvalidTimezone
			}
			e.Timezone = *req.Timezone
		}

		if err := qtx.Update(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		s.logger.Warn("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee updated", zap.String("employee_id", id))
	return mapToResponse(updated), nil
}

func mapToResponse(e *Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID.String(),
		ExternalID:       e.ExternalID,
		Name:             e.Name,
		IsAdmin:          e.IsAdmin,
		AnnualPtoDays:    e.AnnualPtoDays,
		UsedPtoDays:      e.UsedPtoDays,
		RemainingPtoDays: e.RemainingPtoDays(),
		Timezone:         e.Timezone,
	}
	if e.OrganizationID != nil {
		resp.OrganizationID = e.OrganizationID.String()
	}
	return resp
}
