package ptotemplate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PtoTemplate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_pto_templates_org"`

	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Content     string `gorm:"type:text"`
	Enabled     bool   `gorm:"not null;default:true"`

	// DaysConsumed is the per-calendar-day consumption factor in [0,1].
	// Requests read it through the live row, not a value snapshot, so a
	// later edit changes the displayed consumption of old requests.
	// Historical requests keep their foreign key even after the row is
	// soft-deleted; that is intended.
	DaysConsumed float64 `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_pto_templates_deleted_at"`
}
