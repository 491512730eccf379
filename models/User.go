package models

import (
	"gorm.io/gorm"
)

// Role values are a closed set; every role check in middleware and the
// approval workflow goes through these constants.
const (
	RoleCitizen    = "citizen"
	RoleGS         = "gs"
	RoleDS         = "ds"
	RoleDistrict   = "district"
	RoleMinistry   = "ministry"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// OfficerRoles are the roles that act on approval stages.
var OfficerRoles = []string{RoleGS, RoleDS, RoleDistrict, RoleMinistry}

type User struct {
	gorm.Model
	FullName    string `json:"fullName"`
	NIC         string `json:"nic" gorm:"uniqueIndex;size:12;not null"`
	Email       string `json:"email" gorm:"index"`
	PhoneNumber string `json:"phoneNumber" gorm:"index"`
	Password    string `json:"-"`
	Address     string `json:"address"`
	Role        string `json:"role" gorm:"type:varchar(20);default:citizen;index"`

	// Officers are attached to the division they serve; citizens to the
	// division they live in (used to route applications to the right GS).
	DivisionID   *uint       `json:"divisionID" gorm:"index"`
	Division     *Division   `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	GNDivisionID *uint       `json:"gnDivisionID" gorm:"index"`
	GNDivision   *GNDivision `json:"gnDivision,omitempty" gorm:"foreignKey:GNDivisionID"`

	IsVerified *bool `json:"isVerified" gorm:"default:false"`
}

// IsOfficer reports whether the user acts on an approval stage.
func (u *User) IsOfficer() bool {
	for _, r := range OfficerRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}
