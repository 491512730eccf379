package models

import "time"

// Certificate is issued automatically when an application reaches the
// completed stage. The document itself lives in object storage under
// ObjectKey; clients download via a presigned URL.
type Certificate struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ApplicationID uint        `json:"applicationID" gorm:"uniqueIndex;not null"`
	Application   Application `json:"-" gorm:"foreignKey:ApplicationID"`

	SerialNumber string `json:"serialNumber" gorm:"size:64;uniqueIndex;not null"`
	CitizenNIC   string `json:"citizenNIC" gorm:"size:12;index"`
	Type         string `json:"type" gorm:"size:80"`
	ObjectKey    string `json:"-" gorm:"size:256"`

	IssuedByID uint      `json:"issuedByID"`
	IssuedAt   time.Time `json:"issuedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
