package service

import (
	"encoding/json"

	"scrapto/internal/models"
	"scrapto/internal/repository"
	"scrapto/internal/ws"

	"go.uber.org/zap"
)

// NotificationService persists notifications and fans them out to any live
// websocket connections of the recipient. Storage is the source of truth;
// the websocket push is fire-and-forget.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
	log  *zap.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{repo: repo, hub: hub, log: log}
}

func (s *NotificationService) Notify(recipientID uint, recipientType, notifType, title, message string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Type:          notifType,
		Title:         title,
		Message:       message,
		Data:          dataJSON,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.PushToUser(recipientID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	return nil
}
