package routes

import (
	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// gsDivision resolves the GS officer's GN division or errors the request.
func gsDivision(ctx iris.Context) (uint, bool) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var officer models.User
	if err := storage.DB.Select("id, gn_division_id").First(&officer, claims.ID).Error; err != nil || officer.GNDivisionID == nil {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Your account has no GN division assignment.", ctx)
		return 0, false
	}
	return *officer.GNDivisionID, true
}

// ListVillagers returns the registry of the GS officer's own GN division,
// with optional client-driven search on NIC or name.
func ListVillagers(ctx iris.Context) {
	divisionID, ok := gsDivision(ctx)
	if !ok {
		return
	}

	query := storage.DB.Model(&models.Villager{}).Where("gn_division_id = ?", divisionID)

	if q := ctx.URLParamDefault("q", ""); q != "" {
		search := "%" + q + "%"
		query = query.Where("nic LIKE ? OR lower(full_name) LIKE lower(?)", search, search)
	}

	page, perPage := utils.Paging(ctx)
	var total int64
	query.Count(&total)

	var villagers []models.Villager
	query.Order("full_name ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&villagers)

	utils.JSONPage(ctx, villagers, page, perPage, total)
}

func CreateVillager(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	divisionID, ok := gsDivision(ctx)
	if !ok {
		return
	}

	var input VillagerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !utils.ValidateNIC(input.NIC) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid NIC format.", ctx)
		return
	}

	villager := models.Villager{
		NIC:            utils.NormalizeNIC(input.NIC),
		FullName:       input.FullName,
		Address:        input.Address,
		HouseholdNo:    input.HouseholdNo,
		DateOfBirth:    input.DateOfBirth,
		Gender:         input.Gender,
		Occupation:     input.Occupation,
		GNDivisionID:   divisionID,
		RegisteredByID: claims.ID,
	}

	if err := storage.DB.Create(&villager).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "A villager with this NIC already exists.", ctx)
		return
	}

	utils.Audit(ctx, "villager.create", "villager", villager.ID, nil, villager)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(villager)
}

func UpdateVillager(ctx iris.Context) {
	divisionID, ok := gsDivision(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid villager id.", ctx)
		return
	}

	var villager models.Villager
	if err := storage.DB.First(&villager, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if villager.GNDivisionID != divisionID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input VillagerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := villager
	updates := map[string]interface{}{
		"full_name":    input.FullName,
		"address":      input.Address,
		"household_no": input.HouseholdNo,
		"date_of_birth": input.DateOfBirth,
		"gender":       input.Gender,
		"occupation":   input.Occupation,
	}
	if err := storage.DB.Model(&villager).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "villager.update", "villager", villager.ID, before, villager)
	ctx.JSON(villager)
}

func DeleteVillager(ctx iris.Context) {
	divisionID, ok := gsDivision(ctx)
	if !ok {
		return
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid villager id.", ctx)
		return
	}

	var villager models.Villager
	if err := storage.DB.First(&villager, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if villager.GNDivisionID != divisionID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := storage.DB.Delete(&villager).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "villager.delete", "villager", villager.ID, villager, nil)
	ctx.JSON(iris.Map{"deleted": true})
}

type VillagerInput struct {
	NIC         string `json:"nic" validate:"required"`
	FullName    string `json:"fullName" validate:"required,max=120"`
	Address     string `json:"address" validate:"max=256"`
	HouseholdNo string `json:"householdNo" validate:"max=32"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	Occupation  string `json:"occupation" validate:"max=80"`
}
