package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return ts
}

func TestShouldNotify(t *testing.T) {
	// 2026-08-31 is a Monday.
	cases := []struct {
		name     string
		timezone string
		lastSent string
		now      string
		want     bool
	}{
		{
			name:     "success early in the window",
			timezone: "UTC",
			now:      "2026-08-31T10:05:00Z",
			want:     true,
		},
		{
			name:     "success late in the window",
			timezone: "UTC",
			now:      "2026-08-31T10:55:00Z",
			want:     true,
		},
		{
			name:     "negative before the window",
			timezone: "UTC",
			now:      "2026-08-31T09:59:00Z",
			want:     false,
		},
		{
			name:     "negative after the window",
			timezone: "UTC",
			now:      "2026-08-31T11:00:00Z",
			want:     false,
		},
		{
			name:     "negative saturday",
			timezone: "UTC",
			now:      "2026-09-05T10:30:00Z",
			want:     false,
		},
		{
			name:     "negative sunday",
			timezone: "UTC",
			now:      "2026-09-06T10:30:00Z",
			want:     false,
		},
		{
			name:     "negative already notified same local day",
			timezone: "UTC",
			lastSent: "2026-08-31T10:05:00Z",
			now:      "2026-08-31T10:55:00Z",
			want:     false,
		},
		{
			name:     "success notified yesterday",
			timezone: "UTC",
			lastSent: "2026-08-31T10:05:00Z",
			now:      "2026-09-01T10:05:00Z",
			want:     true,
		},
		{
			// Friday 23:30 KST stamp must not swallow the Monday
			// reminder: the local-day comparison has to happen in the
			// recipient's zone, not UTC.
			name:     "success kst friday stamp monday window",
			timezone: "Asia/Seoul",
			lastSent: "2025-06-27T14:30:00Z",
			now:      "2025-06-30T01:00:00Z", // Monday 10:00 KST
			want:     true,
		},
		{
			name:     "negative kst already sent this morning",
			timezone: "Asia/Seoul",
			lastSent: "2025-06-30T01:05:00Z",
			now:      "2025-06-30T01:30:00Z",
			want:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &employee.Employee{Timezone: tc.timezone}
			if tc.lastSent != "" {
				ts := mustParse(t, tc.lastSent)
				e.LastNotificationSentAt = &ts
			}

			got, err := ShouldNotify(e, mustParse(t, tc.now))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShouldNotify_InvalidTimezone(t *testing.T) {
	e := &employee.Employee{Timezone: "Mars/Olympus_Mons"}
	_, err := ShouldNotify(e, time.Now())
	assert.Error(t, err)
}

// Embedding the interface satisfies it; anything the sweep should
// never call panics through the nil embedded value.
type fakeSweepRepo struct {
	ptorequest.Repository
	approvals []ptorequest.PtoApproval
}

func (f *fakeSweepRepo) FindCurrentPendingApprovals(ctx context.Context) ([]ptorequest.PtoApproval, error) {
	return f.approvals, nil
}

type fakeSweepEmployeeRepo struct {
	employee.Repository
	stamped map[string]time.Time
}

func (f *fakeSweepEmployeeRepo) SetLastNotificationSentAt(ctx context.Context, id string, at time.Time) error {
	if f.stamped == nil {
		f.stamped = make(map[string]time.Time)
	}
	f.stamped[id] = at
	return nil
}

type fakeMessenger struct {
	digests  map[string]int
	failWith error
}

func (f *fakeMessenger) SendPendingApprovalsDigest(ctx context.Context, recipient *employee.Employee, approvals []ptorequest.PtoApproval) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.digests == nil {
		f.digests = make(map[string]int)
	}
	f.digests[recipient.ID.String()] = len(approvals)
	return nil
}

func (f *fakeMessenger) SendDecisionNotice(ctx context.Context, recipient *employee.Employee, request *ptorequest.PtoRequest) error {
	return nil
}

type fakeDeactivator struct {
	deactivated []string
}

func (f *fakeDeactivator) Deactivate(ctx context.Context, organizationID string) error {
	f.deactivated = append(f.deactivated, organizationID)
	return nil
}

func pendingApprovalFor(approver *employee.Employee) ptorequest.PtoApproval {
	return ptorequest.PtoApproval{
		ID:         uuid.New(),
		RequestID:  uuid.New(),
		ApproverID: approver.ID,
		Sequence:   1,
		Status:     ptorequest.StatusPending,
		Approver:   approver,
	}
}

func TestScheduler_RunSweep(t *testing.T) {
	orgID := uuid.New()
	monday := mustParse(t, "2026-08-31T10:15:00Z")

	due := &employee.Employee{ID: uuid.New(), OrganizationID: &orgID, Timezone: "UTC"}
	notDue := &employee.Employee{ID: uuid.New(), OrganizationID: &orgID, Timezone: "Asia/Seoul"} // 19:15 local

	repo := &fakeSweepRepo{approvals: []ptorequest.PtoApproval{
		pendingApprovalFor(due),
		pendingApprovalFor(due),
		pendingApprovalFor(notDue),
	}}
	employeeRepo := &fakeSweepEmployeeRepo{}
	messenger := &fakeMessenger{}

	s := NewScheduler(repo, employeeRepo, messenger, &fakeDeactivator{})

	sent, err := s.RunSweep(context.Background(), monday)
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)

	// One digest covering both approvals, and a dedup stamp.
	assert.Equal(t, 2, messenger.digests[due.ID.String()])
	assert.Equal(t, monday, employeeRepo.stamped[due.ID.String()])
	_, stampedNotDue := employeeRepo.stamped[notDue.ID.String()]
	assert.False(t, stampedNotDue)
}

func TestScheduler_RunSweep_DeliveryFailureSkipsStamp(t *testing.T) {
	orgID := uuid.New()
	monday := mustParse(t, "2026-08-31T10:15:00Z")

	due := &employee.Employee{ID: uuid.New(), OrganizationID: &orgID, Timezone: "UTC"}
	repo := &fakeSweepRepo{approvals: []ptorequest.PtoApproval{pendingApprovalFor(due)}}
	employeeRepo := &fakeSweepEmployeeRepo{}
	messenger := &fakeMessenger{failWith: errors.New("chat api 500")}

	s := NewScheduler(repo, employeeRepo, messenger, &fakeDeactivator{})

	sent, err := s.RunSweep(context.Background(), monday)
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, employeeRepo.stamped)
}

func TestScheduler_RunSweep_DeactivatedAccountRetiresOrganization(t *testing.T) {
	orgID := uuid.New()
	monday := mustParse(t, "2026-08-31T10:15:00Z")

	due := &employee.Employee{ID: uuid.New(), OrganizationID: &orgID, Timezone: "UTC"}
	repo := &fakeSweepRepo{approvals: []ptorequest.PtoApproval{pendingApprovalFor(due)}}
	employeeRepo := &fakeSweepEmployeeRepo{}
	messenger := &fakeMessenger{failWith: ErrAccountDeactivated}
	deactivator := &fakeDeactivator{}

	s := NewScheduler(repo, employeeRepo, messenger, deactivator)

	sent, err := s.RunSweep(context.Background(), monday)
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, []string{orgID.String()}, deactivator.deactivated)
	assert.Empty(t, employeeRepo.stamped)
}

