package routes

import (
	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

// ListProducts is the public marketplace listing; only active products show.
func ListProducts(ctx iris.Context) {
	query := storage.DB.Model(&models.Product{}).Where("status = ?", models.ProductActive)

	if category := ctx.URLParamDefault("category", ""); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := ctx.URLParamDefault("q", ""); q != "" {
		query = query.Where("lower(name) LIKE lower(?)", "%"+q+"%")
	}

	page, perPage := utils.Paging(ctx)
	var total int64
	query.Count(&total)

	var products []models.Product
	query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&products)

	utils.JSONPage(ctx, products, page, perPage, total)
}

func GetProduct(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid product id.", ctx)
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(product)
}

func AdminCreateProduct(ctx iris.Context) {
	var input ProductInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	price, priceErr := decimal.NewFromString(input.Price)
	if priceErr != nil || price.IsNegative() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid price.", ctx)
		return
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Status:      models.ProductActive,
	}
	if err := storage.DB.Create(&product).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "product.create", "product", product.ID, nil, product)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(product)
}

func AdminUpdateProduct(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid product id.", ctx)
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input ProductInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	price, priceErr := decimal.NewFromString(input.Price)
	if priceErr != nil || price.IsNegative() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid price.", ctx)
		return
	}

	before := product
	updates := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"category":    input.Category,
		"price":       price,
		"stock":       input.Stock,
		"image_url":   input.ImageURL,
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if err := storage.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "product.update", "product", product.ID, before, product)
	ctx.JSON(product)
}

func AdminDeleteProduct(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid product id.", ctx)
		return
	}

	var product models.Product
	if err := storage.DB.First(&product, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&product).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "product.delete", "product", product.ID, product, nil)
	ctx.JSON(iris.Map{"deleted": true})
}

type ProductInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=60"`
	Price       string `json:"price" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"imageURL" validate:"max=512"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}
