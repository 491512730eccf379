package routes

import (
	"time"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// AdminListUsers lists accounts, optionally filtered by role or NIC search.
func AdminListUsers(ctx iris.Context) {
	query := storage.DB.Model(&models.User{}).Preload("Division").Preload("GNDivision")

	if role := ctx.URLParamDefault("role", ""); role != "" {
		query = query.Where("role = ?", role)
	}
	if q := ctx.URLParamDefault("q", ""); q != "" {
		search := "%" + q + "%"
		query = query.Where("nic LIKE ? OR lower(full_name) LIKE lower(?)", search, search)
	}

	page, perPage := utils.Paging(ctx)
	var total int64
	query.Count(&total)

	var users []models.User
	query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&users)

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminCreateOfficer creates a GS/DS/district/ministry officer account with
// its division assignment.
func AdminCreateOfficer(ctx iris.Context) {
	var input CreateOfficerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.OfficerRoles, input.Role) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Role must be one of gs, ds, district, ministry.", ctx)
		return
	}
	if !utils.ValidateNIC(input.NIC) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid NIC format.", ctx)
		return
	}
	if input.Role == models.RoleGS && input.GNDivisionID == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"GS officers need a GN division assignment.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	verified := true
	officer := models.User{
		FullName:     input.FullName,
		NIC:          utils.NormalizeNIC(input.NIC),
		Email:        input.Email,
		Password:     hashedPassword,
		Role:         input.Role,
		DivisionID:   input.DivisionID,
		GNDivisionID: input.GNDivisionID,
		IsVerified:   &verified,
	}

	if err := storage.DB.Create(&officer).Error; err != nil {
		utils.CreateNICAlreadyRegistered(ctx)
		return
	}

	utils.Audit(ctx, "officer.create", "user", officer.ID, nil, officer)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(officer)
}

// AdminChangeUserRole is restricted to super admins by route middleware.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var input ChangeRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	allowed := append([]string{models.RoleCitizen, models.RoleAdmin, models.RoleSuperAdmin}, models.OfficerRoles...)
	if !slices.Contains(allowed, input.Role) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown role.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user.Role
	if err := storage.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_change", "user", user.ID,
		iris.Map{"role": before}, iris.Map{"role": input.Role})
	ctx.JSON(user)
}

// AdminVerifyUser marks a citizen account as identity-verified.
func AdminVerifyUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user id.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	verified := true
	if err := storage.DB.Model(&user).Update("is_verified", &verified).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.verify", "user", user.ID, nil, iris.Map{"isVerified": true})
	ctx.JSON(user)
}

// AdminStats powers the super admin dashboard tiles.
func AdminStats(ctx iris.Context) {
	stageCounts := iris.Map{}
	for _, stage := range []string{models.StageGS, models.StageDS, models.StageDistrict, models.StageMinistry} {
		var n int64
		storage.DB.Model(&models.Application{}).
			Where("status = ? AND current_stage = ?", models.StatusPending, stage).Count(&n)
		stageCounts[stage] = n
	}

	var completed, rejected int64
	storage.DB.Model(&models.Application{}).Where("status = ?", models.StatusCompleted).Count(&completed)
	storage.DB.Model(&models.Application{}).Where("status = ?", models.StatusRejected).Count(&rejected)

	var certificates int64
	storage.DB.Model(&models.Certificate{}).Count(&certificates)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var orders7, orders30 int64
	storage.DB.Model(&models.Order{}).Where("created_at >= ?", since7).Count(&orders7)
	storage.DB.Model(&models.Order{}).Where("created_at >= ?", since30).Count(&orders30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_by_stage":       stageCounts,
			"completed_applications": completed,
			"rejected_applications":  rejected,
			"certificates_issued":    certificates,
			"new_orders_7d":          orders7,
			"new_orders_30d":         orders30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// AdminActivity returns the audit log tail.
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}

type CreateOfficerInput struct {
	FullName     string `json:"fullName" validate:"required,max=120"`
	NIC          string `json:"nic" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Password     string `json:"password" validate:"required,min=8,max=256"`
	Role         string `json:"role" validate:"required"`
	DivisionID   *uint  `json:"divisionID"`
	GNDivisionID *uint  `json:"gnDivisionID"`
}

type ChangeRoleInput struct {
	Role string `json:"role" validate:"required"`
}
