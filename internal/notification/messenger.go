package notification

import (
	"context"
	"errors"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
)

// ErrAccountDeactivated is returned by a Messenger when the workspace
// reports the whole account as deactivated, not just one recipient.
var ErrAccountDeactivated = errors.New("workspace account deactivated")

// Messenger delivers a direct message to an employee in their
// workspace chat. Implementations wrap the concrete chat platform API.
//
//go:generate mockgen -source=messenger.go -destination=mock/messenger_mock.go -package=mock
type Messenger interface {
	SendPendingApprovalsDigest(ctx context.Context, recipient *employee.Employee, approvals []ptorequest.PtoApproval) error
	SendDecisionNotice(ctx context.Context, recipient *employee.Employee, request *ptorequest.PtoRequest) error
}
