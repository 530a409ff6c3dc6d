package ptotemplate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	templateerrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/ptotemplate/errors"
)

//go:generate mockgen -source=template_service.go -destination=mock/template_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organizationID string, req CreateTemplateRequest) (TemplateResponse, error)
	GetAll(ctx context.Context, organizationID string, enabledOnly bool) ([]TemplateResponse, error)
	GetByID(ctx context.Context, organizationID, id string) (TemplateResponse, error)
	Update(ctx context.Context, organizationID, id string, req UpdateTemplateRequest) (TemplateResponse, error)
	Delete(ctx context.Context, organizationID, id string) error
	SeedDefaults(ctx context.Context, organizationID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ptotemplate.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ptotemplate.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, organizationID string, req CreateTemplateRequest) (TemplateResponse, error) {
	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return TemplateResponse{}, templateerrors.ErrInvalidOrganizationID
	}
	if req.DaysConsumed < 0 || req.DaysConsumed > 1 {
		return TemplateResponse{}, templateerrors.ErrInvalidDaysConsumed
	}

	t := &PtoTemplate{
		ID:             uuid.New(),
		OrganizationID: orgUUID,
		Title:          req.Title,
		Description:    req.Description,
		Content:        req.Content,
		Enabled:        true,
		DaysConsumed:   req.DaysConsumed,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create template failed",
			zap.String("organization_id", organizationID),
			zap.Error(err),
		)
		return TemplateResponse{}, err
	}

	s.logger.Info("template created",
		zap.String("template_id", t.ID.String()),
		zap.String("organization_id", organizationID),
	)
	return mapToResponse(t), nil
}

func (s *service) GetAll(ctx context.Context, organizationID string, enabledOnly bool) ([]TemplateResponse, error) {
	templates, err := s.repo.FindAllByOrganization(ctx, organizationID, enabledOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, len(templates))
	for i := range templates {
		resp[i] = mapToResponse(&templates[i])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, organizationID, id string) (TemplateResponse, error) {
	t, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TemplateResponse{}, templateerrors.ErrTemplateNotFound
		}
		return TemplateResponse{}, err
	}
	return mapToResponse(t), nil
}

func (s *service) Update(ctx context.Context, organizationID, id string, req UpdateTemplateRequest) (TemplateResponse, error) {
	t, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TemplateResponse{}, templateerrors.ErrTemplateNotFound
		}
		return TemplateResponse{}, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Content != nil {
		t.Content = *req.Content
	}
	if req.Enabled != nil {
		t.Enabled = *req.Enabled
	}
	if req.DaysConsumed != nil {
		if *req.DaysConsumed < 0 || *req.DaysConsumed > 1 {
			return TemplateResponse{}, templateerrors.ErrInvalidDaysConsumed
		}
		t.DaysConsumed = *req.DaysConsumed
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update template failed", zap.String("template_id", id), zap.Error(err))
		return TemplateResponse{}, err
	}

	s.logger.Info("template updated", zap.String("template_id", id))
	return mapToResponse(t), nil
}

// Delete soft-deletes the template. Historical requests keep pointing
// at the row; it just stops being offered for new requests.
func (s *service) Delete(ctx context.Context, organizationID, id string) error {
	if _, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return templateerrors.ErrTemplateNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		return err
	}

	s.logger.Info("template deleted", zap.String("template_id", id))
	return nil
}

// SeedDefaults provisions the stock templates on install. Idempotent:
// an organization that already has templates is left alone.
func (s *service) SeedDefaults(ctx context.Context, organizationID string) error {
	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return templateerrors.ErrInvalidOrganizationID
	}

	count, err := s.repo.CountByOrganization(ctx, organizationID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []PtoTemplate{
		{Title: "Full day off", DaysConsumed: 1, Enabled: true},
		{Title: "Half day off", DaysConsumed: 0.5, Enabled: true},
		{Title: "Sick leave", DaysConsumed: 1, Enabled: true},
	}
	for i := range defaults {
		defaults[i].ID = uuid.New()
		defaults[i].OrganizationID = orgUUID
		if err := s.repo.Create(ctx, &defaults[i]); err != nil {
			return err
		}
	}

	s.logger.Info("default templates seeded", zap.String("organization_id", organizationID))
	return nil
}

func mapToResponse(t *PtoTemplate) TemplateResponse {
	return TemplateResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		Content:      t.Content,
		Enabled:      t.Enabled,
		DaysConsumed: t.DaysConsumed,
	}
}
