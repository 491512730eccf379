package routes

import (
	"errors"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/services"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// OrderTotal computes the order total from line items. Quantities are
// validated by the caller; prices are the products' current prices.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CreateOrder is checkout: validates the cart, decrements stock and creates
// the order inside one transaction.
func CreateOrder(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateOrderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if len(input.Items) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Cart is empty.", ctx)
		return
	}
	if !utils.ValidatePhoneNumber(input.Phone) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid delivery phone number.", ctx)
		return
	}

	var order models.Order

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, line := range input.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return errOrderProduct
			}
			if product.Status != models.ProductActive {
				return errOrderProduct
			}
			if product.Stock < line.Quantity {
				return errOrderStock
			}
			if err := tx.Model(&product).Update("stock", product.Stock-line.Quantity).Error; err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
		}

		order = models.Order{
			Reference: uuid.NewString(),
			UserID:    claims.ID,
			Items:     items,
			Total:     OrderTotal(items),
			Status:    models.OrderPending,
			Phone:     utils.NormalizePhoneNumber(input.Phone),
			Address:   input.Address,
		}
		return tx.Create(&order).Error
	})

	switch txErr {
	case nil:
	case errOrderProduct:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown or inactive product in cart.", ctx)
		return
	case errOrderStock:
		utils.CreateError(iris.StatusConflict, "Conflict", "Insufficient stock for an item in your cart.", ctx)
		return
	default:
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(order)
}

// GetMyOrders lists the buyer's orders with their items.
func GetMyOrders(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var orders []models.Order
	storage.DB.Where("user_id = ?", claims.ID).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders)

	ctx.JSON(orders)
}

// CancelOrder lets the buyer cancel while the order is still pending;
// stock is restored.
func CancelOrder(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid order id.", ctx)
		return
	}

	var order models.Order
	if err := storage.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if order.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	if order.Status != models.OrderPending {
		utils.CreateError(iris.StatusConflict, "Conflict", "Only pending orders can be cancelled.", ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&order).Update("status", models.OrderCancelled).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"cancelled": true})
}

// AdminListOrders lists all orders, optionally filtered by status.
func AdminListOrders(ctx iris.Context) {
	query := storage.DB.Model(&models.Order{}).Preload("Items.Product").Preload("User")

	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	page, perPage := utils.Paging(ctx)
	var total int64
	query.Count(&total)

	var orders []models.Order
	query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&orders)

	utils.JSONPage(ctx, orders, page, perPage, total)
}

// AdminUpdateOrderStatus moves an order through its fulfilment states and
// notifies the buyer.
func AdminUpdateOrderStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid order id.", ctx)
		return
	}

	var input UpdateOrderStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.OrderStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown order status.", ctx)
		return
	}

	var order models.Order
	if err := storage.DB.First(&order, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := order.Status
	if err := storage.DB.Model(&order).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "order.status", "order", order.ID,
		iris.Map{"status": before}, iris.Map{"status": input.Status})
	go services.NewNotificationService().NotifyOrderStatus(&order)

	ctx.JSON(order)
}

var (
	errOrderProduct = errors.New("unknown or inactive product")
	errOrderStock   = errors.New("insufficient stock")
)

type CreateOrderInput struct {
	Items   []OrderLineInput `json:"items" validate:"required,dive"`
	Phone   string           `json:"phone" validate:"required"`
	Address string           `json:"address" validate:"required,max=256"`
}

type OrderLineInput struct {
	ProductID uint `json:"productID" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}
