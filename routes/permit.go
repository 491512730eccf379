package routes

import (
	"time"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// IssuePermit creates a permit backed by a completed application.
func IssuePermit(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input IssuePermitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var application models.Application
	if err := storage.DB.Preload("Applicant").First(&application, input.ApplicationID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if application.Status != models.StatusCompleted {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Permits can only be issued against completed applications.", ctx)
		return
	}

	validFrom, err := time.Parse("2006-01-02", input.ValidFrom)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "validFrom must be YYYY-MM-DD.", ctx)
		return
	}
	validUntil, err := time.Parse("2006-01-02", input.ValidUntil)
	if err != nil || !validUntil.After(validFrom) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "validUntil must be after validFrom.", ctx)
		return
	}

	permit := models.Permit{
		ApplicationID: application.ID,
		Type:          input.Type,
		HolderNIC:     application.Applicant.NIC,
		IssuedByID:    claims.ID,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		Status:        models.PermitActive,
	}
	if err := storage.DB.Create(&permit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "permit.issue", "permit", permit.ID, nil, permit)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(permit)
}

// GetMyPermits lists permits held by the authenticated citizen. Permits past
// their validity window are reported as expired.
func GetMyPermits(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var permits []models.Permit
	storage.DB.Where("holder_nic = ?", claims.NIC).Order("created_at DESC").Find(&permits)

	now := time.Now()
	for i := range permits {
		if permits[i].Status == models.PermitActive && permits[i].ValidUntil.Before(now) {
			permits[i].Status = models.PermitExpired
			storage.DB.Model(&permits[i]).Update("status", models.PermitExpired)
		}
	}

	ctx.JSON(permits)
}

// RevokePermit marks a permit revoked; officers only.
func RevokePermit(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid permit id.", ctx)
		return
	}

	var permit models.Permit
	if err := storage.DB.First(&permit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if permit.Status == models.PermitRevoked {
		utils.CreateError(iris.StatusConflict, "Conflict", "Permit is already revoked.", ctx)
		return
	}

	before := permit.Status
	if err := storage.DB.Model(&permit).Update("status", models.PermitRevoked).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "permit.revoke", "permit", permit.ID,
		iris.Map{"status": before}, iris.Map{"status": models.PermitRevoked})
	ctx.JSON(permit)
}

type IssuePermitInput struct {
	ApplicationID uint   `json:"applicationID" validate:"required"`
	Type          string `json:"type" validate:"required,max=80"`
	ValidFrom     string `json:"validFrom" validate:"required"`
	ValidUntil    string `json:"validUntil" validate:"required"`
}
