package ptorequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptotemplate"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type PtoRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_requests_org_status"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_requests_employee"`
	TemplateID     uuid.UUID `gorm:"type:uuid;not null"`

	RequestNumber int64  `gorm:"not null"`
	Title         string `gorm:"type:varchar(255);not null"`
	Reason        string `gorm:"type:text"`

	// Inclusive calendar date range.
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_pto_requests_org_status"`

	// CurrentApprovalID points at the approval awaiting action. It is
	// never advanced past a terminal decision, so on a finalized
	// request it keeps pointing at the last acted approval.
	CurrentApprovalID *uuid.UUID `gorm:"type:uuid"`

	Employee  *employee.Employee       `gorm:"foreignKey:EmployeeID"`
	Template  *ptotemplate.PtoTemplate `gorm:"foreignKey:TemplateID"`
	Approvals []PtoApproval            `gorm:"foreignKey:RequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_pto_requests_deleted_at"`
}

type PtoApproval struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_approvals_request"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_approvals_approver"`

	// Sequence is the explicit 1-based position in the chain. Queries
	// always order by it; row insertion order is not load-bearing.
	Sequence int `gorm:"not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Comment    *string    `gorm:"type:text"`
	ActionDate *time.Time

	Request  *PtoRequest        `gorm:"foreignKey:RequestID"`
	Approver *employee.Employee `gorm:"foreignKey:ApproverID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_pto_approvals_deleted_at"`
}

// InclusiveDays counts calendar days in [StartDate, EndDate].
func (r *PtoRequest) InclusiveDays() float64 {
	return r.EndDate.Sub(r.StartDate).Hours()/24 + 1
}

// ConsumedDays reads the factor through the live template row, not a
// snapshot taken at creation time.
func (r *PtoRequest) ConsumedDays() float64 {
	if r.Template == nil {
		return 0
	}
	return r.InclusiveDays() * r.Template.DaysConsumed
}

func (r *PtoRequest) OnGoing(now time.Time) bool {
	if r.Status != StatusApproved {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !today.Before(r.StartDate) && !today.After(r.EndDate)
}
