package services

import (
	"errors"
	"fmt"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// stageOrder is the single authoritative transition table for the approval
// workflow. Applications only ever move forward through it; a rejection at
// any stage is terminal.
var stageOrder = []string{
	models.StageGS,
	models.StageDS,
	models.StageDistrict,
	models.StageMinistry,
	models.StageCompleted,
}

// roleForStage maps the stage an application sits at to the officer role
// allowed to act on it.
var roleForStage = map[string]string{
	models.StageGS:       models.RoleGS,
	models.StageDS:       models.RoleDS,
	models.StageDistrict: models.RoleDistrict,
	models.StageMinistry: models.RoleMinistry,
}

var (
	ErrUnknownStage     = errors.New("unknown approval stage")
	ErrTerminalStage    = errors.New("application is at a terminal stage")
	ErrNotPending       = errors.New("application is not pending")
	ErrWrongOfficer     = errors.New("officer role does not match the current stage")
	ErrCommentsRequired = errors.New("rejection requires comments")
	ErrUnknownAction    = errors.New("unknown approval action")
)

// NextStage returns the stage after the given one.
func NextStage(stage string) (string, error) {
	i := slices.Index(stageOrder, stage)
	if i < 0 {
		return "", ErrUnknownStage
	}
	if stageOrder[i] == models.StageCompleted {
		return "", ErrTerminalStage
	}
	return stageOrder[i+1], nil
}

// ValidStage reports whether the string is one of the five known stages.
func ValidStage(stage string) bool {
	return slices.Contains(stageOrder, stage)
}

// RoleForStage returns the officer role that acts at a stage.
func RoleForStage(stage string) (string, error) {
	role, ok := roleForStage[stage]
	if !ok {
		return "", ErrUnknownStage
	}
	return role, nil
}

// StageForRole returns the stage an officer role is responsible for, or ""
// for non-officer roles.
func StageForRole(role string) string {
	for stage, r := range roleForStage {
		if r == role {
			return stage
		}
	}
	return ""
}

// Decision is the outcome of applying an officer decision.
type Decision struct {
	Entry     models.ApprovalAction
	NewStage  string
	NewStatus string
	Completed bool
}

// Decide applies one officer decision to an application inside the given
// transaction: appends exactly one chain entry and advances or terminates
// the workflow. The caller is responsible for side effects (certificate
// issuance, notifications) after commit.
func Decide(tx *gorm.DB, app *models.Application, officer *models.User, action, comments string) (*Decision, error) {
	if app.Status != models.StatusPending {
		return nil, ErrNotPending
	}
	if app.CurrentStage == models.StageCompleted {
		return nil, ErrTerminalStage
	}

	requiredRole, err := RoleForStage(app.CurrentStage)
	if err != nil {
		return nil, err
	}
	if officer.Role != requiredRole {
		return nil, fmt.Errorf("%w: stage %s needs role %s", ErrWrongOfficer, app.CurrentStage, requiredRole)
	}

	newStage := app.CurrentStage
	newStatus := app.Status

	switch action {
	case models.ActionApproved:
		if comments == "" {
			comments = "Approved"
		}
		next, err := NextStage(app.CurrentStage)
		if err != nil {
			return nil, err
		}
		newStage = next
		if next == models.StageCompleted {
			newStatus = models.StatusCompleted
		}
	case models.ActionRejected:
		if comments == "" {
			return nil, ErrCommentsRequired
		}
		// Terminal: the stage freezes where the rejection happened and the
		// citizen must submit a fresh application.
		newStatus = models.StatusRejected
	default:
		return nil, ErrUnknownAction
	}

	entry := models.ApprovalAction{
		ApplicationID: app.ID,
		Stage:         app.CurrentStage,
		OfficerID:     officer.ID,
		OfficerNIC:    officer.NIC,
		Action:        action,
		Comments:      comments,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(app).Updates(map[string]interface{}{
		"current_stage": newStage,
		"status":        newStatus,
	}).Error; err != nil {
		return nil, err
	}
	app.CurrentStage = newStage
	app.Status = newStatus

	return &Decision{
		Entry:     entry,
		NewStage:  newStage,
		NewStatus: newStatus,
		Completed: newStatus == models.StatusCompleted,
	}, nil
}
