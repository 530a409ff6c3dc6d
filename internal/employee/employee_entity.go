package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// OrganizationID is set-null on organization deletion so audit
	// history survives the tenant going away.
	OrganizationID *uuid.UUID `gorm:"type:uuid;index:idx_employees_org_external;constraint:OnDelete:SET NULL"`

	ExternalID string `gorm:"type:varchar(64);not null;index:idx_employees_org_external"`
	Name       string `gorm:"type:varchar(255)"`
	IsAdmin    bool   `gorm:"not null;default:false"`

	AnnualPtoDays float64 `gorm:"not null;default:15"`
	UsedPtoDays   float64 `gorm:"not null;default:0"`

	// IANA timezone, e.g. "Asia/Seoul". Drives the notification window.
	Timezone string `gorm:"type:varchar(64);not null;default:'UTC'"`

	// UTC instant of the last pending-approval reminder. An instant,
	// not a date: the scheduler converts it to the employee's local day.
	LastNotificationSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

func (e *Employee) RemainingPtoDays() float64 {
	return e.AnnualPtoDays - e.UsedPtoDays
}
