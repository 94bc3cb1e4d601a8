package dto

import (
	"time"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// NotificationQuery is the query string of GET /notifications.
type NotificationQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Limit      int  `form:"limit" validate:"omitempty,gte=1,lte=200"`
}

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	CotacaoID int64     `json:"cotacao_id"`
	Tipo      string    `json:"tipo"`
	Titulo    string    `json:"titulo"`
	Mensagem  string    `json:"mensagem"`
	Lida      bool      `json:"lida"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse renders n.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		CotacaoID: n.QuotationID,
		Tipo:      string(n.Category),
		Titulo:    n.Title,
		Mensagem:  n.Body,
		Lida:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse is the body of GET /notifications/unread-count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MarkedResponse reports how many notifications were flipped to read.
type MarkedResponse struct {
	Marked int `json:"marked"`
}

// OperatorResponse is a reassignment candidate.
type OperatorResponse struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Tipo  string `json:"tipo_usuario"`
}

// NewOperatorResponse renders u.
func NewOperatorResponse(u *domain.User) OperatorResponse {
	return OperatorResponse{ID: u.ID, Nome: u.Name, Email: u.Email, Tipo: string(u.Role)}
}

// ListResponse wraps an unpaginated collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse converts items with convert. Items is never null in JSON.
func NewListResponse[S, T any](items []S, convert func(*S) T) ListResponse[T] {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, convert(&items[i]))
	}

	return ListResponse[T]{Items: out, Count: len(out)}
}
