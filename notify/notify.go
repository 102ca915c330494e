// Package notify tells the back office about new storefront orders, by push
// to registered devices and by Server-Sent Events to open tabs.
package notify

import (
	"context"
	"errors"
	"log"
	"strings"

	"doceria/database"
	"doceria/model"

	"github.com/jmoiron/sqlx"
)

const EventNewOrder = "new-order"

var ErrTokenRequired = errors.New("token is required")

type Service struct {
	db     *sqlx.DB
	sender Sender
	hub    *Hub
}

func NewService(db *sqlx.DB, sender Sender, hub *Hub) *Service {
	if sender == nil {
		sender = LogSender{}
	}
	if hub == nil {
		hub = NewHub()
	}
	return &Service{db: db, sender: sender, hub: hub}
}

func (s *Service) Hub() *Hub { return s.hub }

// Register stores a device token for uid; re-registering moves it.
func (s *Service) Register(uid, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	if platform == "" {
		platform = "web"
	}
	return database.UpsertToken(s.db, model.DeviceToken{Token: token, UserID: uid, Platform: platform, CreatedAt: database.Now()})
}

func (s *Service) Unregister(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	return database.DeleteTokens(s.db, []string{token})
}

// NewOrderText builds the notification title and body for o.
func NewOrderText(o *model.Order) (title, body string) {
	title = "Novo pedido recebido"
	body = "Um novo pedido foi recebido."
	if name := strings.TrimSpace(o.CustomerName); name != "" {
		body = "Pedido de " + name
	}
	if o.Number != "" {
		body += " (#" + o.Number + ")"
	}
	return title, body
}

// NotifyNewOrder publishes a new-order event to the store's open tabs and
// sends a push to every registered device. Failures are logged only.
func (s *Service) NotifyNewOrder(ctx context.Context, o *model.Order) {
	title, body := NewOrderText(o)
	s.hub.Publish(o.StoreID, Event{
		Type:      EventNewOrder,
		PlaySound: true,
		Data:      map[string]string{"orderId": o.ID, "numeroPedido": o.Number, "title": title, "body": body},
	})

	tokens, err := database.GetAllTokens(s.db)
	if err != nil {
		log.Printf("ERROR: [NotifyNewOrder] %v", err)
		return
	}
	if len(tokens) == 0 {
		log.Printf("INFO: [NotifyNewOrder] no device tokens registered; order %s not pushed", o.ID)
		return
	}

	responses, err := s.sender.Send(ctx, Message{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Tag:    EventNewOrder,
		Data:   map[string]string{"orderId": o.ID, "lojaId": o.StoreID, "url": "/"},
	})
	if err != nil {
		log.Printf("ERROR: [NotifyNewOrder] order %s: %v", o.ID, err)
		return
	}

	var stale []string
	for i, res := range responses {
		if res.Success || i >= len(tokens) {
			continue
		}
		log.Printf("WARN: [NotifyNewOrder] push failed (%s): %s", res.Code, res.Error)
		if res.Code == CodeNotRegistered || res.Code == CodeInvalidToken {
			stale = append(stale, tokens[i])
		}
	}
	if err := database.DeleteTokens(s.db, stale); err != nil {
		log.Printf("ERROR: [NotifyNewOrder] failed to prune tokens: %v", err)
	}
}
