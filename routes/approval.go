package routes

import (
	"errors"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/services"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// GetPendingApprovals returns the queue for the authenticated officer: all
// pending applications sitting at the stage their role acts on. GS officers
// are additionally scoped to their own GN division.
func GetPendingApprovals(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	stage := services.StageForRole(claims.Role)
	if stage == "" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	query := storage.DB.Model(&models.Application{}).
		Where("status = ? AND current_stage = ?", models.StatusPending, stage).
		Preload("Applicant").
		Preload("GNDivision")

	if claims.Role == models.RoleGS {
		var officer models.User
		if err := storage.DB.Select("id, gn_division_id").First(&officer, claims.ID).Error; err != nil || officer.GNDivisionID == nil {
			utils.CreateError(iris.StatusConflict, "Conflict",
				"Your account has no GN division assignment.", ctx)
			return
		}
		query = query.Where("gn_division_id = ?", *officer.GNDivisionID)
	}

	page, perPage := utils.Paging(ctx)
	var total int64
	query.Count(&total)

	var applications []models.Application
	query.Order("created_at ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&applications)

	utils.JSONPage(ctx, applications, page, perPage, total)
}

// GetApprovalDetail returns one application with its chain for officer
// review. The officer must be at the application's current stage, or an
// earlier decision stage for context.
func GetApprovalDetail(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid application id.", ctx)
		return
	}

	application := loadApplication(id, ctx)
	if application == nil {
		return
	}
	ctx.JSON(application)
}

// DecideApplication handles PUT /api/applications/{id}/approve with body
// {action: "Approved"|"Rejected", comments: "..."}. This is the single
// mutation point of the approval workflow.
func DecideApplication(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid application id.", ctx)
		return
	}

	var input DecisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var officer models.User
	if err := storage.DB.First(&officer, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var decision *services.Decision
	var application models.Application

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Applicant").First(&application, id).Error; err != nil {
			return err
		}

		// GS officers only act on their own division's applications.
		if officer.Role == models.RoleGS {
			if officer.GNDivisionID == nil || *officer.GNDivisionID != application.GNDivisionID {
				return services.ErrWrongOfficer
			}
		}

		d, err := services.Decide(tx, &application, &officer, input.Action, input.Comments)
		if err != nil {
			return err
		}
		decision = d
		return nil
	})

	if txErr != nil {
		writeDecisionError(txErr, ctx)
		return
	}

	utils.Audit(ctx, "application.decide", "application", application.ID, nil, decision.Entry)

	notifier := services.NewNotificationService()
	notifier.NotifyApplicationDecision(&application, decision)

	if decision.Completed {
		cert, certErr := services.NewCertificateService().Issue(ctx.Request().Context(), &application, officer.ID)
		if certErr == nil {
			notifier.Notify(application.ApplicantID, "certificate_issued",
				"Certificate Issued",
				"Your "+application.ServiceType+" certificate is ready to download.",
				"certificate", cert.ID)
		}
	} else if decision.NewStatus == models.StatusPending {
		go notifier.NotifyNextOfficer(&application, decision.NewStage)
	}

	ctx.JSON(iris.Map{
		"applicationID": application.ID,
		"currentStage":  decision.NewStage,
		"status":        decision.NewStatus,
		"entry":         decision.Entry,
	})
}

func writeDecisionError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrWrongOfficer):
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"You are not the officer for this application's current stage.", ctx)
	case errors.Is(err, services.ErrCommentsRequired):
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"A rejection reason is required.", ctx)
	case errors.Is(err, services.ErrNotPending), errors.Is(err, services.ErrTerminalStage):
		utils.CreateError(iris.StatusConflict, "Conflict",
			"This application can no longer be acted on.", ctx)
	case errors.Is(err, services.ErrUnknownAction):
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Action must be Approved or Rejected.", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

type DecisionInput struct {
	Action   string `json:"action" validate:"required,oneof=Approved Rejected"`
	Comments string `json:"comments" validate:"max=1000"`
}
