package models

import (
	"gorm.io/gorm"
)

// Villager is a registry record maintained by the GS officer of a GN
// division. It is independent of portal accounts: most villagers never
// register on the portal.
type Villager struct {
	gorm.Model
	NIC         string `json:"nic" gorm:"uniqueIndex;size:12;not null"`
	FullName    string `json:"fullName" gorm:"size:120;not null"`
	Address     string `json:"address" gorm:"size:256"`
	HouseholdNo string `json:"householdNo" gorm:"size:32;index"`
	DateOfBirth string `json:"dateOfBirth" gorm:"size:10"`
	Gender      string `json:"gender" gorm:"size:10"`
	Occupation  string `json:"occupation" gorm:"size:80"`

	GNDivisionID uint       `json:"gnDivisionID" gorm:"not null;index"`
	GNDivision   GNDivision `json:"-" gorm:"foreignKey:GNDivisionID"`

	RegisteredByID uint `json:"registeredByID"`
}
