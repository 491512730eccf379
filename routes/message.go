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

// StartConversation opens a citizen↔officer thread, or returns the existing
// one for the same pair and subject.
func StartConversation(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input StartConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var other models.User
	if err := storage.DB.First(&other, input.WithUserID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var citizenID, officerID uint
	if claims.Role == models.RoleCitizen {
		if !other.IsOfficer() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Citizens can only message officers.", ctx)
			return
		}
		citizenID, officerID = claims.ID, other.ID
	} else {
		citizenID, officerID = other.ID, claims.ID
	}

	var conversation models.Conversation
	err := storage.DB.Where("citizen_id = ? AND officer_id = ? AND subject = ?",
		citizenID, officerID, input.Subject).First(&conversation).Error
	if err != nil {
		conversation = models.Conversation{
			CitizenID: citizenID,
			OfficerID: officerID,
			Subject:   input.Subject,
		}
		if err := storage.DB.Create(&conversation).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(conversation)
}

// GetMyConversations lists threads the user participates in.
func GetMyConversations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var conversations []models.Conversation
	storage.DB.Where("citizen_id = ? OR officer_id = ?", claims.ID, claims.ID).
		Preload("Citizen").Preload("Officer").
		Order("updated_at DESC").
		Find(&conversations)

	ctx.JSON(conversations)
}

func CreateMessage(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var conversation models.Conversation
	if err := storage.DB.First(&conversation, req.ConversationID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if conversation.CitizenID != claims.ID && conversation.OfficerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	receiverID := conversation.CitizenID
	if claims.ID == conversation.CitizenID {
		receiverID = conversation.OfficerID
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       claims.ID,
		ReceiverID:     receiverID,
		Text:           req.Text,
		RefType:        req.RefType,
		RefID:          req.RefID,
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	storage.DB.Model(&conversation).Update("updated_at", time.Now())

	var sender models.User
	if err := storage.DB.Select("id, full_name").First(&sender, claims.ID).Error; err == nil {
		go services.NewNotificationService().NotifyNewMessage(&message, sender.FullName)
	}

	ctx.JSON(message)
}

// ListMessages: GET /api/messages?conversationID=...&cursor=...&limit=...
// Cursor is the lowest message ID from the previous page; pages walk
// backwards in time.
func ListMessages(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	conversationID := ctx.URLParamIntDefault("conversationID", 0)
	if conversationID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "conversationID is required.", ctx)
		return
	}

	var conversation models.Conversation
	if err := storage.DB.First(&conversation, conversationID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if conversation.CitizenID != claims.ID && conversation.OfficerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	limit := ctx.URLParamIntDefault("limit", 50)
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := storage.DB.Where("conversation_id = ?", conversationID)
	if cursor := ctx.URLParamIntDefault("cursor", 0); cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var messages []models.Message
	query.Order("id DESC").Limit(limit).Find(&messages)

	ctx.JSON(iris.Map{"messages": messages, "count": len(messages)})
}

// MarkMessagesRead marks everything addressed to the caller in a
// conversation as read.
func MarkMessagesRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input MarkReadInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read_at IS NULL", input.ConversationID, claims.ID).
		Update("read_at", &now)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"marked": result.RowsAffected})
}

type StartConversationInput struct {
	WithUserID uint   `json:"withUserID" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=200"`
}

type CreateMessageInput struct {
	ConversationID uint   `json:"conversationID" validate:"required"`
	Text           string `json:"text" validate:"required,lt=5000"`
	RefType        string `json:"refType" validate:"omitempty,oneof=application order"`
	RefID          *uint  `json:"refID"`
}

type MarkReadInput struct {
	ConversationID uint `json:"conversationID" validate:"required"`
}
