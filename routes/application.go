package routes

import (
	"encoding/json"
	"log"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/services"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmitApplication creates a new service application, routed to the GS of
// the citizen's GN division. Every application starts at the gs stage.
func SubmitApplication(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input SubmitApplicationInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var applicant models.User
	if err := storage.DB.First(&applicant, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	gnDivisionID := input.GNDivisionID
	if gnDivisionID == 0 {
		if applicant.GNDivisionID == nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"No GN division on your profile; include gnDivisionID.", ctx)
			return
		}
		gnDivisionID = *applicant.GNDivisionID
	}

	var gnDivision models.GNDivision
	if err := storage.DB.First(&gnDivision, gnDivisionID).Error; err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown GN division.", ctx)
		return
	}

	details, _ := json.Marshal(input.Details)

	application := models.Application{
		ServiceType:   input.ServiceType,
		ApplicantID:   applicant.ID,
		GNDivisionID:  gnDivisionID,
		Status:        models.StatusPending,
		CurrentStage:  models.StageGS,
		Details:       datatypes.JSON(details),
		AttachmentKey: input.AttachmentKey,
	}

	if err := storage.DB.Create(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	application.Applicant = applicant
	go services.NewNotificationService().NotifyNextOfficer(&application, models.StageGS)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(application)
}

// GetMyApplications lists the citizen's own applications, newest first.
func GetMyApplications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var applications []models.Application
	storage.DB.Where("applicant_id = ?", claims.ID).
		Preload("ApprovalChain", func(db *gorm.DB) *gorm.DB { return db.Order("approval_actions.created_at ASC") }).
		Order("created_at DESC").
		Find(&applications)

	ctx.JSON(applications)
}

// GetApplication returns one application with its full approval chain.
// Citizens see only their own; officers and admins see any.
func GetApplication(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid application id.", ctx)
		return
	}

	application := loadApplication(id, ctx)
	if application == nil {
		return
	}

	if claims.Role == models.RoleCitizen && application.ApplicantID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	ctx.JSON(application)
}

// WithdrawApplication lets the applicant withdraw while the application is
// still pending. Once completed or rejected it is part of the record.
func WithdrawApplication(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid application id.", ctx)
		return
	}

	var application models.Application
	if err := storage.DB.First(&application, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if application.ApplicantID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if application.Status != models.StatusPending {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Only pending applications can be withdrawn.", ctx)
		return
	}

	if err := storage.DB.Delete(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if application.AttachmentKey != "" && storage.Documents != nil {
		if err := storage.Documents.Delete(ctx.Request().Context(), application.AttachmentKey); err != nil {
			log.Printf("failed to delete attachment %s: %v", application.AttachmentKey, err)
		}
	}

	utils.Audit(ctx, "application.withdraw", "application", application.ID, application, nil)
	ctx.JSON(iris.Map{"withdrawn": true})
}

func loadApplication(id uint, ctx iris.Context) *models.Application {
	var application models.Application
	err := storage.DB.
		Preload("Applicant").
		Preload("GNDivision").
		Preload("ApprovalChain", func(db *gorm.DB) *gorm.DB { return db.Order("approval_actions.created_at ASC") }).
		First(&application, id).Error
	if err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &application
}

type SubmitApplicationInput struct {
	ServiceType   string             `json:"serviceType" validate:"required,max=80"`
	GNDivisionID  uint               `json:"gnDivisionID"`
	Details       ApplicationDetails `json:"details" validate:"required"`
	AttachmentKey string             `json:"attachmentKey" validate:"max=256"`
}

type ApplicationDetails struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Address string `json:"address" validate:"max=256"`
	Reason  string `json:"reason" validate:"max=1000"`
}
