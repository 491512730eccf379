package routes

import (
	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
)

// ListDivisions is public: the registration form needs divisions before any
// account exists.
func ListDivisions(ctx iris.Context) {
	var divisions []models.Division
	storage.DB.Preload("GNDivisions").Order("name ASC").Find(&divisions)
	ctx.JSON(divisions)
}

func CreateDivision(ctx iris.Context) {
	var input DivisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	division := models.Division{Name: input.Name, Code: input.Code, District: input.District}
	if err := storage.DB.Create(&division).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "Division code already exists.", ctx)
		return
	}

	utils.Audit(ctx, "division.create", "division", division.ID, nil, division)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(division)
}

func UpdateDivision(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid division id.", ctx)
		return
	}

	var division models.Division
	if err := storage.DB.First(&division, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input DivisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := division
	if err := storage.DB.Model(&division).Updates(map[string]interface{}{
		"name": input.Name, "code": input.Code, "district": input.District,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "division.update", "division", division.ID, before, division)
	ctx.JSON(division)
}

func CreateGNDivision(ctx iris.Context) {
	divisionID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid division id.", ctx)
		return
	}

	var division models.Division
	if err := storage.DB.First(&division, divisionID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input GNDivisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	gn := models.GNDivision{DivisionID: division.ID, Name: input.Name, Code: input.Code}
	if err := storage.DB.Create(&gn).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "GN division code already exists.", ctx)
		return
	}

	utils.Audit(ctx, "gn_division.create", "gn_division", gn.ID, nil, gn)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(gn)
}

func DeleteGNDivision(ctx iris.Context) {
	id, err := ctx.Params().GetUint("gnID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid GN division id.", ctx)
		return
	}

	var gn models.GNDivision
	if err := storage.DB.First(&gn, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	// Refuse to orphan villagers or applications.
	var inUse int64
	storage.DB.Model(&models.Application{}).Where("gn_division_id = ?", gn.ID).Count(&inUse)
	if inUse > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"GN division has applications attached and cannot be removed.", ctx)
		return
	}

	if err := storage.DB.Delete(&gn).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "gn_division.delete", "gn_division", gn.ID, gn, nil)
	ctx.JSON(iris.Map{"deleted": true})
}

type DivisionInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Code     string `json:"code" validate:"required,max=20"`
	District string `json:"district" validate:"required,max=80"`
}

type GNDivisionInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Code string `json:"code" validate:"required,max=20"`
}
