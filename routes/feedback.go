package routes

import (
	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CreateFeedback stores citizen feedback about a service or the portal.
func CreateFeedback(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateFeedbackInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	feedback := models.Feedback{
		UserID:  claims.ID,
		Title:   input.Title,
		Message: input.Message,
		Rating:  input.Rating,
		Context: input.Context,
	}
	if err := storage.DB.Create(&feedback).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(feedback)
}

// AdminListFeedback lists all feedback, newest first.
func AdminListFeedback(ctx iris.Context) {
	page, perPage := utils.Paging(ctx)

	var total int64
	storage.DB.Model(&models.Feedback{}).Count(&total)

	var items []models.Feedback
	storage.DB.Preload("User").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&items)

	utils.JSONPage(ctx, items, page, perPage, total)
}

type CreateFeedbackInput struct {
	Title   string `json:"title" validate:"max=200"`
	Message string `json:"message" validate:"required,max=4000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Context string `json:"context" validate:"max=200"`
}
