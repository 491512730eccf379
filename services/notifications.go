package services

import (
	"fmt"
	"log"
	"time"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
)

// NotificationService persists in-app notifications and pushes them to
// connected websocket clients.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Notify stores a notification and publishes it to the user's sockets.
func (ns *NotificationService) Notify(userID uint, notifType, title, message, refType string, refID uint) error {
	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", userID, err)
		return err
	}

	Hub.Publish(userID, HubEvent{
		Type:      "notification",
		Data:      notification,
		Timestamp: time.Now(),
	})
	return nil
}

// NotifyApplicationDecision tells the applicant about an officer decision.
func (ns *NotificationService) NotifyApplicationDecision(app *models.Application, decision *Decision) {
	var title, message string
	switch {
	case decision.Completed:
		title = "Application Completed"
		message = fmt.Sprintf("Your %s application has been fully approved. Your certificate is ready.", app.ServiceType)
	case decision.NewStatus == models.StatusRejected:
		title = "Application Rejected"
		message = fmt.Sprintf("Your %s application was rejected at the %s stage: %s", app.ServiceType, decision.Entry.Stage, decision.Entry.Comments)
	default:
		title = "Application Progressed"
		message = fmt.Sprintf("Your %s application passed the %s stage and moved to %s.", app.ServiceType, decision.Entry.Stage, decision.NewStage)
	}

	ns.Notify(app.ApplicantID, "application_update", title, message, "application", app.ID)
}

// NotifyNextOfficer alerts the officer(s) responsible for the stage the
// application just arrived at.
func (ns *NotificationService) NotifyNextOfficer(app *models.Application, stage string) {
	role, err := RoleForStage(stage)
	if err != nil {
		return
	}

	query := storage.DB.Model(&models.User{}).Where("role = ?", role)
	// GS officers only see their own GN division's queue.
	if role == models.RoleGS {
		query = query.Where("gn_division_id = ?", app.GNDivisionID)
	}

	var officers []models.User
	if err := query.Find(&officers).Error; err != nil {
		log.Printf("failed to find %s officers for application %d: %v", role, app.ID, err)
		return
	}

	for _, officer := range officers {
		ns.Notify(officer.ID, "application_assigned",
			"New Application Pending",
			fmt.Sprintf("A %s application is awaiting your review.", app.ServiceType),
			"application", app.ID)
	}
}

// NotifyOrderStatus tells the buyer about an order status change.
func (ns *NotificationService) NotifyOrderStatus(order *models.Order) {
	ns.Notify(order.UserID, "order_update",
		"Order "+order.Status,
		fmt.Sprintf("Order %s is now %s.", order.Reference, order.Status),
		"order", order.ID)
}

// NotifyNewMessage tells the receiver a message arrived.
func (ns *NotificationService) NotifyNewMessage(message *models.Message, senderName string) {
	ns.Notify(message.ReceiverID, "message",
		"New Message",
		fmt.Sprintf("%s sent you a message.", senderName),
		"conversation", message.ConversationID)
}
