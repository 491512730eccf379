package models

import "time"

const (
	PermitActive  = "active"
	PermitExpired = "expired"
	PermitRevoked = "revoked"
)

// Permit is an officer-issued permit (timber, sand, land use...) backed by a
// completed application.
type Permit struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ApplicationID uint        `json:"applicationID" gorm:"not null;index"`
	Application   Application `json:"-" gorm:"foreignKey:ApplicationID"`

	Type       string `json:"type" gorm:"size:80;not null"`
	HolderNIC  string `json:"holderNIC" gorm:"size:12;index;not null"`
	IssuedByID uint   `json:"issuedByID" gorm:"index"`

	ValidFrom  time.Time `json:"validFrom"`
	ValidUntil time.Time `json:"validUntil"`
	Status     string    `json:"status" gorm:"size:16;default:'active';index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
