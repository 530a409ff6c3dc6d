package notification

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
)

const notificationHour = 10

// OrganizationDeactivator is the escalation hook the sweep fires when
// the messenger reports the whole workspace account as deactivated.
type OrganizationDeactivator interface {
	Deactivate(ctx context.Context, organizationID string) error
}

type Scheduler struct {
	requestRepo  ptorequest.Repository
	employeeRepo employee.Repository
	messenger    Messenger
	deactivator  OrganizationDeactivator
	limiter      *rate.Limiter
	logger       *zap.Logger
}

func NewScheduler(
	requestRepo ptorequest.Repository,
	employeeRepo employee.Repository,
	messenger Messenger,
	deactivator OrganizationDeactivator,
	logger ...*zap.Logger,
) *Scheduler {
	l := zap.L().Named("notification.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.scheduler")
	}
	return &Scheduler{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		messenger:    messenger,
		deactivator:  deactivator,
		// Workspace chat APIs throttle DMs around 1rps per bot.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		logger:  l,
	}
}

// ShouldNotify reports whether an approver is due a reminder at the
// given instant: it must be 10:00-10:59 on a weekday in their local
// timezone, and they must not have been reminded yet that local day.
func ShouldNotify(e *employee.Employee, now time.Time) (bool, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return false, err
	}

	local := now.In(loc)
	if local.Hour() != notificationHour {
		return false, nil
	}
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, nil
	}

	if e.LastNotificationSentAt != nil {
		last := e.LastNotificationSentAt.In(loc)
		if startOfDay(last).Compare(startOfDay(local)) >= 0 {
			return false, nil
		}
	}

	return true, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RunSweep sends one digest per due approver covering all their
// current pending approvals, and returns how many digests went out.
// Per-recipient failures are logged and skipped so one broken mailbox
// never stalls the rest of the sweep.
func (s *Scheduler) RunSweep(ctx context.Context, now time.Time) (int, error) {
	approvals, err := s.requestRepo.FindCurrentPendingApprovals(ctx)
	if err != nil {
		return 0, err
	}

	byApprover := make(map[string][]ptorequest.PtoApproval)
	recipients := make(map[string]*employee.Employee)
	for i := range approvals {
		a := approvals[i]
		if a.Approver == nil {
			continue
		}
		id := a.ApproverID.String()
		byApprover[id] = append(byApprover[id], a)
		recipients[id] = a.Approver
	}

	sent := 0
	for id, recipient := range recipients {
		due, err := ShouldNotify(recipient, now)
		if err != nil {
			s.logger.Warn("skipping approver with invalid timezone",
				zap.String("employee_id", id),
				zap.String("timezone", recipient.Timezone),
				zap.Error(err),
			)
			continue
		}
		if !due {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return sent, err
		}

		if err := s.messenger.SendPendingApprovalsDigest(ctx, recipient, byApprover[id]); err != nil {
			if errors.Is(err, ErrAccountDeactivated) {
				s.escalateDeactivation(ctx, recipient)
				continue
			}
			s.logger.Warn("digest delivery failed",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			continue
		}

		if err := s.employeeRepo.SetLastNotificationSentAt(ctx, id, now); err != nil {
			// Stamp failure risks a duplicate tomorrow at worst.
			s.logger.Warn("failed to record notification timestamp",
				zap.String("employee_id", id),
				zap.Error(err),
			)
		}
		sent++
	}

	s.logger.Info("notification sweep finished",
		zap.Int("candidates", len(recipients)),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func (s *Scheduler) escalateDeactivation(ctx context.Context, recipient *employee.Employee) {
	if s.deactivator == nil || recipient.OrganizationID == nil {
		return
	}

	orgID := recipient.OrganizationID.String()
	s.logger.Warn("workspace account deactivated, retiring organization",
		zap.String("organization_id", orgID),
	)
	if err := s.deactivator.Deactivate(ctx, orgID); err != nil {
		s.logger.Error("organization deactivation failed",
			zap.String("organization_id", orgID),
			zap.Error(err),
		)
	}
}
