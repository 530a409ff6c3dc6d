package organization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organization struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalID string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_organizations_external_id"`
	Name       string    `gorm:"type:varchar(255)"`

	// InstallationData is the opaque credential blob handed over by the
	// workspace install handshake. This service stores it verbatim and
	// never inspects it.
	InstallationData string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_organizations_deleted_at"`
}
