package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Approval stages in the order an application moves through them.
const (
	StageGS        = "gs"
	StageDS        = "ds"
	StageDistrict  = "district"
	StageMinistry  = "ministry"
	StageCompleted = "completed"
)

// Citizen-facing application status, coarser than the stage.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusRejected  = "Rejected"
)

const (
	ActionApproved = "Approved"
	ActionRejected = "Rejected"
)

// Application is a citizen's request for a government service. It is the
// central entity of the portal: it carries the approval chain and the
// fine-grained workflow position.
type Application struct {
	gorm.Model
	ServiceType string `json:"serviceType" gorm:"size:80;not null;index"`
	ApplicantID uint   `json:"applicantID" gorm:"not null;index"`
	Applicant   User   `json:"applicant" gorm:"foreignKey:ApplicantID"`

	// Routing: the GN division whose GS officer sees this first.
	GNDivisionID uint       `json:"gnDivisionID" gorm:"not null;index"`
	GNDivision   GNDivision `json:"gnDivision" gorm:"foreignKey:GNDivisionID"`

	Status       string `json:"status" gorm:"size:16;default:'Pending';index"`
	CurrentStage string `json:"currentStage" gorm:"size:16;default:'gs';index"`

	// Free-form applicant details (name, phone, address, reason).
	Details datatypes.JSON `json:"details"`

	// Optional supporting document in object storage.
	AttachmentKey string `json:"attachmentKey" gorm:"size:256"`

	// Append-only audit trail, ordered by creation.
	ApprovalChain []ApprovalAction `json:"approvalChain" gorm:"foreignKey:ApplicationID"`
}

// ApprovalAction is one entry of the approval chain. Rows are only ever
// inserted, never updated or deleted.
type ApprovalAction struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ApplicationID uint   `json:"applicationID" gorm:"not null;index"`
	Stage         string `json:"level" gorm:"size:16;not null"`
	OfficerID     uint   `json:"officerID" gorm:"not null;index"`
	OfficerNIC    string `json:"nic" gorm:"size:12"`
	Action        string `json:"action" gorm:"size:16;not null"`
	Comments      string `json:"comments" gorm:"type:text"`

	CreatedAt time.Time `json:"timestamp"`
}
