package ptorequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/events"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/messaging/kafka"
	requesterrors "github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest/errors"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptotemplate"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/contextutil"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/counter"
)

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organizationID, requesterID string, req CreatePtoRequest) (RequestResponse, error)
	Approve(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ApprovalResponse, error)
	Reject(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ApprovalResponse, error)
	Delete(ctx context.Context, organizationID, actorID string, actorIsAdmin bool, requestID string) (DeleteResponse, error)

	MyRequests(ctx context.Context, employeeID string) ([]RequestResponse, error)
	PendingApprovalsFor(ctx context.Context, approverID string) ([]ApprovalResponse, error)
	OrganizationRequestsForMonth(ctx context.Context, organizationID string, year int, month time.Month) ([]RequestResponse, error)
}

type service struct {
	gdb          *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	templateRepo ptotemplate.Repository
	counter      counter.Repository
	outbox       kafka.OutboxRepository
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(
	gdb *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	templateRepo ptotemplate.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(gdb, repo, employeeRepo, templateRepo, counterRepo, nil, logger...)
}

func NewServiceWithOutbox(
	gdb *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	templateRepo ptotemplate.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ptorequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ptorequest.service")
	}
	return &service{
		gdb:          gdb,
		repo:         repo,
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		counter:      counterRepo,
		outbox:       outboxRepo,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, organizationID, requesterID string, req CreatePtoRequest) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create pto request",
		zap.String("request_id", rid),
		zap.String("organization_id", organizationID),
		zap.String("requester_id", requesterID),
		zap.Int("approvers", len(req.ApproverIDs)),
	)

	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidOrganizationID
	}
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequesterID
	}
	if len(req.ApproverIDs) == 0 {
		return RequestResponse{}, requesterrors.ErrNoApprovers
	}
	approverUUIDs := make([]uuid.UUID, len(req.ApproverIDs))
	for i, id := range req.ApproverIDs {
		u, err := uuid.Parse(id)
		if err != nil {
			return RequestResponse{}, requesterrors.ErrInvalidApproverID
		}
		approverUUIDs[i] = u
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return RequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return RequestResponse{}, err
	}
	if startDate.After(endDate) {
		return RequestResponse{}, requesterrors.ErrInvalidDateRange
	}

	var requestID uuid.UUID
	err = s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		tpl, err := s.templateRepo.WithTx(tx).FindByIDAndOrganization(ctx, organizationID, req.TemplateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requesterrors.ErrTemplateNotFound
			}
			return err
		}
		if !tpl.Enabled {
			return requesterrors.ErrTemplateDisabled
		}
		// A sub-day template consumes a fraction of a single day; it
		// cannot stretch across calendar days.
		if tpl.DaysConsumed > 0 && tpl.DaysConsumed < 1 && !startDate.Equal(endDate) {
			return requesterrors.ErrSubDayTemplateMultiDay
		}

		number, err := s.counter.WithTx(tx).GetNextValue(ctx, organizationID, "pto_request")
		if err != nil {
			return err
		}

		requestID = uuid.New()
		approvals := make([]PtoApproval, len(approverUUIDs))
		for i, approverID := range approverUUIDs {
			approvals[i] = PtoApproval{
				ID:         uuid.New(),
				RequestID:  requestID,
				ApproverID: approverID,
				Sequence:   i + 1,
				Status:     StatusPending,
			}
		}
		firstApprovalID := approvals[0].ID

		request := &PtoRequest{
			ID:                requestID,
			OrganizationID:    orgUUID,
			EmployeeID:        requesterUUID,
			TemplateID:        tpl.ID,
			RequestNumber:     number,
			Title:             req.Title,
			Reason:            req.Reason,
			StartDate:         startDate,
			EndDate:           endDate,
			Status:            StatusPending,
			CurrentApprovalID: &firstApprovalID,
			Approvals:         approvals,
		}
		if err := qtx.CreateRequest(ctx, request); err != nil {
			return err
		}

		return s.enqueueLifecycleEvent(ctx, tx, events.EventTypePtoRequestCreated, request, approvals[0].ApproverID.String(), StatusPending)
	})
	if err != nil {
		s.logger.Warn("create pto request failed",
			zap.String("request_id", rid),
			zap.String("requester_id", requesterID),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	created, err := s.repo.FindRequestByID(ctx, requestID.String())
	if err != nil {
		return RequestResponse{}, err
	}

	s.logger.Info("pto request created",
		zap.String("pto_request_id", requestID.String()),
		zap.String("requester_id", requesterID),
		zap.Int64("request_number", created.RequestNumber),
	)
	return mapRequestToResponse(created, time.Now().UTC()), nil
}

func (s *service) Approve(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ApprovalResponse, error) {
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		// Re-read fresh inside the transaction; never trust an object
		// the caller fetched earlier.
		a, err := qtx.FindApprovalByID(ctx, approvalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requesterrors.ErrApprovalNotFound
			}
			return err
		}

		if !actorIsAdmin && a.ApproverID.String() != actorID {
			return requesterrors.ErrNotApprovalOwner
		}
		if a.Status != StatusPending || a.Request == nil || a.Request.Status != StatusPending {
			return requesterrors.ErrApprovalAlreadyProcessed
		}

		now := time.Now().UTC()
		rows, err := qtx.UpdateApprovalStatusIfPending(ctx, approvalID, StatusApproved, normalizeComment(comment), now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Race loser: someone else moved this approval first.
			return requesterrors.ErrApprovalAlreadyProcessed
		}

		next := nextPendingApproval(a.Request.Approvals, a.Sequence)
		if next != nil {
			if err := qtx.SetCurrentApproval(ctx, a.RequestID.String(), next.ID.String()); err != nil {
				return err
			}
			return s.enqueueLifecycleEvent(ctx, tx, events.EventTypePtoRequestAdvanced, a.Request, next.ApproverID.String(), StatusPending)
		}

		// Final approval: finalize and charge the requester's balance.
		// The increment path deliberately has no upper clamp.
		if err := qtx.UpdateRequestStatus(ctx, a.RequestID.String(), StatusApproved); err != nil {
			return err
		}
		if err := s.employeeRepo.WithTx(tx).IncrementUsedPtoDays(ctx, a.Request.EmployeeID.String(), a.Request.ConsumedDays()); err != nil {
			return err
		}
		return s.enqueueLifecycleEvent(ctx, tx, events.EventTypePtoRequestDecided, a.Request, "", StatusApproved)
	})
	if err != nil {
		s.logger.Warn("approve failed",
			zap.String("approval_id", approvalID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	refreshed, err := s.repo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return ApprovalResponse{}, err
	}

	s.logger.Info("approval approved",
		zap.String("approval_id", approvalID),
		zap.String("actor_id", actorID),
		zap.String("request_status", refreshed.Request.Status),
	)
	return mapApprovalToResponse(refreshed, true), nil
}

func (s *service) Reject(ctx context.Context, actorID string, actorIsAdmin bool, approvalID, comment string) (ApprovalResponse, error) {
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		a, err := qtx.FindApprovalByID(ctx, approvalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requesterrors.ErrApprovalNotFound
			}
			return err
		}

		if !actorIsAdmin && a.ApproverID.String() != actorID {
			return requesterrors.ErrNotApprovalOwner
		}
		if a.Status != StatusPending || a.Request == nil || a.Request.Status != StatusPending {
			return requesterrors.ErrApprovalAlreadyProcessed
		}

		now := time.Now().UTC()
		rows, err := qtx.UpdateApprovalStatusIfPending(ctx, approvalID, StatusRejected, normalizeComment(comment), now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return requesterrors.ErrApprovalAlreadyProcessed
		}

		if err := qtx.RejectOtherPendingApprovals(ctx, a.RequestID.String(), approvalID, now); err != nil {
			return err
		}
		if err := qtx.UpdateRequestStatus(ctx, a.RequestID.String(), StatusRejected); err != nil {
			return err
		}
		// Rejection never touches the balance.
		return s.enqueueLifecycleEvent(ctx, tx, events.EventTypePtoRequestDecided, a.Request, "", StatusRejected)
	})
	if err != nil {
		s.logger.Warn("reject failed",
			zap.String("approval_id", approvalID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	refreshed, err := s.repo.FindApprovalByID(ctx, approvalID)
	if err != nil {
		return ApprovalResponse{}, err
	}

	s.logger.Info("approval rejected",
		zap.String("approval_id", approvalID),
		zap.String("actor_id", actorID),
	)
	return mapApprovalToResponse(refreshed, true), nil
}

// Delete soft-deletes a request and, if it had been approved, refunds
// the requester's balance clamped into [0, annual]. The clamp defends
// against an allotment lowered between approval and deletion. Only the
// requester or an admin of the same organization may delete; requests
// outside the caller's organization read as not found.
func (s *service) Delete(ctx context.Context, organizationID, actorID string, actorIsAdmin bool, requestID string) (DeleteResponse, error) {
	var decremented float64
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		req, err := qtx.FindRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requesterrors.ErrRequestNotFound
			}
			return err
		}

		if req.OrganizationID.String() != organizationID {
			return requesterrors.ErrRequestNotFound
		}
		if !actorIsAdmin && req.EmployeeID.String() != actorID {
			return requesterrors.ErrNotRequestOwner
		}

		if req.Status == StatusApproved {
			empRepo := s.employeeRepo.WithTx(tx)
			emp, err := empRepo.FindByID(ctx, req.EmployeeID.String())
			if err != nil {
				return err
			}

			newUsed := emp.UsedPtoDays - req.ConsumedDays()
			if newUsed < 0 {
				newUsed = 0
			}
			if newUsed > emp.AnnualPtoDays {
				newUsed = emp.AnnualPtoDays
			}
			decremented = emp.UsedPtoDays - newUsed

			if err := empRepo.SetUsedPtoDays(ctx, emp.ID.String(), newUsed); err != nil {
				return err
			}
		}

		if err := qtx.SoftDeleteApprovalsByRequest(ctx, requestID); err != nil {
			return err
		}
		return qtx.SoftDeleteRequest(ctx, requestID)
	})
	if err != nil {
		s.logger.Warn("delete pto request failed", zap.String("pto_request_id", requestID), zap.Error(err))
		return DeleteResponse{}, err
	}

	s.logger.Info("pto request deleted",
		zap.String("pto_request_id", requestID),
		zap.Float64("decremented_days", decremented),
	)
	return DeleteResponse{Deleted: true, DecrementedDays: decremented}, nil
}

func (s *service) MyRequests(ctx context.Context, employeeID string) ([]RequestResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := make([]RequestResponse, len(requests))
	for i := range requests {
		resp[i] = mapRequestToResponse(&requests[i], now)
	}
	return resp, nil
}

func (s *service) PendingApprovalsFor(ctx context.Context, approverID string) ([]ApprovalResponse, error) {
	approvals, err := s.repo.FindPendingApprovalsForApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}

	resp := make([]ApprovalResponse, len(approvals))
	for i := range approvals {
		resp[i] = mapApprovalToResponse(&approvals[i], true)
	}
	return resp, nil
}

func (s *service) OrganizationRequestsForMonth(ctx context.Context, organizationID string, year int, month time.Month) ([]RequestResponse, error) {
	now := time.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	// Month views fan out from every member's home screen at once;
	// coalesce identical concurrent queries.
	key := fmt.Sprintf("org-month:%s:%d-%02d", organizationID, year, int(month))
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.repo.FindByOrganizationOverlapping(ctx, organizationID, monthStart, monthEnd)
	})
	if err != nil {
		return nil, err
	}

	requests := v.([]PtoRequest)
	resp := make([]RequestResponse, len(requests))
	for i := range requests {
		resp[i] = mapRequestToResponse(&requests[i], now)
	}
	return resp, nil
}

// enqueueLifecycleEvent writes an outbox row inside the caller's
// transaction. Status is passed explicitly: the request row is mutated
// by raw updates, so the in-memory copy cannot be trusted for it.
func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *gorm.DB, eventType string, req *PtoRequest, currentApproverID, status string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.PtoRequestLifecycleEvent{
		EventType:         eventType,
		RequestID:         req.ID.String(),
		OrganizationID:    req.OrganizationID.String(),
		RequesterID:       req.EmployeeID.String(),
		CurrentApproverID: currentApproverID,
		Status:            status,
		OccurredAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "pto_request",
		AggregateID:   req.ID.String(),
		EventType:     eventType,
		Topic:         events.PtoRequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// nextPendingApproval returns the first pending approval after the
// given sequence, or nil when the chain is exhausted. Approvals must
// already be ordered by sequence.
func nextPendingApproval(approvals []PtoApproval, afterSequence int) *PtoApproval {
	for i := range approvals {
		if approvals[i].Sequence > afterSequence && approvals[i].Status == StatusPending {
			return &approvals[i]
		}
	}
	return nil
}

func normalizeComment(comment string) *string {
	if comment == "" {
		return nil
	}
	return &comment
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRequestToResponse(r *PtoRequest, now time.Time) RequestResponse {
	resp := RequestResponse{
		ID:             r.ID.String(),
		RequestNumber:  r.RequestNumber,
		OrganizationID: r.OrganizationID.String(),
		RequesterID:    r.EmployeeID.String(),
		TemplateID:     r.TemplateID.String(),
		Title:          r.Title,
		Reason:         r.Reason,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		Status:         r.Status,
		ConsumedDays:   r.ConsumedDays(),
		OnGoing:        r.OnGoing(now),
	}
	if r.Employee != nil {
		resp.RequesterName = r.Employee.Name
	}
	if r.Template != nil {
		resp.TemplateTitle = r.Template.Title
	}
	if r.CurrentApprovalID != nil {
		v := r.CurrentApprovalID.String()
		resp.CurrentApprovalID = &v
	}
	for i := range r.Approvals {
		resp.Approvals = append(resp.Approvals, mapApprovalToResponse(&r.Approvals[i], false))
	}
	return resp
}

func mapApprovalToResponse(a *PtoApproval, withRequest bool) ApprovalResponse {
	resp := ApprovalResponse{
		ID:         a.ID.String(),
		RequestID:  a.RequestID.String(),
		ApproverID: a.ApproverID.String(),
		Sequence:   a.Sequence,
		Status:     a.Status,
		Comment:    a.Comment,
	}
	if a.Approver != nil {
		resp.ApproverName = a.Approver.Name
	}
	if a.ActionDate != nil {
		v := a.ActionDate.Format(time.RFC3339)
		resp.ActionDate = &v
	}
	if withRequest && a.Request != nil {
		r := mapRequestToResponse(a.Request, time.Now().UTC())
		resp.Request = &r
	}
	return resp
}
