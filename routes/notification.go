package routes

import (
	"time"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/services"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetMyNotifications lists the caller's notifications, unread first.
func GetMyNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var notifications []models.Notification
	storage.DB.Where("user_id = ?", claims.ID).
		Order("is_read ASC, created_at DESC").
		Limit(100).
		Find(&notifications)

	var unread int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.ID, false).Count(&unread)

	ctx.JSON(iris.Map{"notifications": notifications, "unread": unread})
}

func MarkNotificationRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid notification id.", ctx)
		return
	}

	var notification models.Notification
	if err := storage.DB.First(&notification, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if notification.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	now := time.Now()
	if err := storage.DB.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": &now,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"marked": result.RowsAffected})
}

// StreamNotifications upgrades to a websocket and pushes notification events
// for the lifetime of the connection.
func StreamNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if err := services.Hub.Subscribe(ctx.ResponseWriter(), ctx.Request(), claims.ID); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Websocket upgrade failed.", ctx)
		return
	}
}
