package organization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	organizationerrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/organization/errors"
)

// TemplateSeeder provisions the default PTO templates for a freshly
// installed organization. Implemented by the ptotemplate service;
// injected here to avoid a package cycle.
type TemplateSeeder interface {
	SeedDefaults(ctx context.Context, organizationID string) error
}

//go:generate mockgen -source=organization_service.go -destination=mock/organization_service_mock.go -package=mock
type Service interface {
	Install(ctx context.Context, req InstallRequest) (OrganizationResponse, error)
	Uninstall(ctx context.Context, externalID string) error
	Deactivate(ctx context.Context, organizationID string) error
	GetByExternalID(ctx context.Context, externalID string) (OrganizationResponse, error)
}

type service struct {
	gdb    *gorm.DB
	repo   Repository
	seeder TemplateSeeder
	logger *zap.Logger
}

func NewService(gdb *gorm.DB, repo Repository, seeder TemplateSeeder, logger ...*zap.Logger) Service {
	l := zap.L().Named("organization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.service")
	}
	return &service{gdb: gdb, repo: repo, seeder: seeder, logger: l}
}

// Install registers a workspace on first contact. A workspace that
// previously uninstalled the bot is restored rather than re-created so
// its history stays attached to the same organization row.
func (s *service) Install(ctx context.Context, req InstallRequest) (OrganizationResponse, error) {
	if req.ExternalID == "" {
		return OrganizationResponse{}, organizationerrors.ErrExternalIDRequired
	}

	s.logger.Debug("install requested", zap.String("external_id", req.ExternalID))

	var resp OrganizationResponse
	var created bool
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		existing, err := qtx.FindByExternalID(ctx, req.ExternalID, true)
		switch {
		case err == nil:
			restored := existing.DeletedAt.Valid
			if restored {
				if err := qtx.Restore(ctx, existing.ID.String()); err != nil {
					return err
				}
			}
			existing.Name = req.Name
			existing.InstallationData = req.InstallationData
			existing.DeletedAt = gorm.DeletedAt{}
			if err := qtx.Update(ctx, existing); err != nil {
				return err
			}
			resp = mapToResponse(existing)
			resp.Restored = restored
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			o := &Organization{
				ID:               uuid.New(),
				ExternalID:       req.ExternalID,
				Name:             req.Name,
				InstallationData: req.InstallationData,
			}
			if err := qtx.Create(ctx, o); err != nil {
				if isUniqueExternalIDViolation(err) {
					// Lost an install race; the winner's row is the one to keep.
					winner, ferr := qtx.FindByExternalID(ctx, req.ExternalID, false)
					if ferr != nil {
						return ferr
					}
					resp = mapToResponse(winner)
					return nil
				}
				return err
			}
			created = true
			resp = mapToResponse(o)
			return nil

		default:
			return err
		}
	})
	if err != nil {
		s.logger.Error("install failed", zap.String("external_id", req.ExternalID), zap.Error(err))
		return OrganizationResponse{}, err
	}

	// Seed after commit so the template rows can reference the new
	// organization through its foreign key.
	if created && s.seeder != nil {
		if err := s.seeder.SeedDefaults(ctx, resp.ID); err != nil {
			s.logger.Error("seed default templates failed",
				zap.String("organization_id", resp.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("install success",
		zap.String("organization_id", resp.ID),
		zap.String("external_id", resp.ExternalID),
		zap.Bool("restored", resp.Restored),
	)
	return resp, nil
}

func (s *service) Uninstall(ctx context.Context, externalID string) error {
	o, err := s.repo.FindByExternalID(ctx, externalID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return organizationerrors.ErrOrganizationNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, o.ID.String()); err != nil {
		s.logger.Error("uninstall failed", zap.String("external_id", externalID), zap.Error(err))
		return err
	}

	s.logger.Info("uninstall success",
		zap.String("organization_id", o.ID.String()),
		zap.String("external_id", externalID),
	)
	return nil
}

// Deactivate soft-deletes the whole tenant. The notification sweep
// escalates here when the messaging side reports the workspace account
// as deactivated.
func (s *service) Deactivate(ctx context.Context, organizationID string) error {
	if _, err := uuid.Parse(organizationID); err != nil {
		return organizationerrors.ErrInvalidOrganizationID
	}

	if _, err := s.repo.FindByID(ctx, organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return organizationerrors.ErrOrganizationNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, organizationID); err != nil {
		return err
	}

	s.logger.Warn("organization deactivated", zap.String("organization_id", organizationID))
	return nil
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (OrganizationResponse, error) {
	o, err := s.repo.FindByExternalID(ctx, externalID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrganizationResponse{}, organizationerrors.ErrOrganizationNotFound
		}
		return OrganizationResponse{}, err
	}
	return mapToResponse(o), nil
}

func isUniqueExternalIDViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_organizations_external_id"
	}
	return false
}

func mapToResponse(o *Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:         o.ID.String(),
		ExternalID: o.ExternalID,
		Name:       o.Name,
	}
}
