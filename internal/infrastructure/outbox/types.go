package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds held in the outbox.
const (
	KindReminder = "reminder"
	KindSystem   = "system"
)

// Item is a notification that could not be delivered and is awaiting retry.
type Item struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ChatID    int64     `json:"chat_id"`
	Message   string    `json:"message"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Kind == "" {
		i.Kind = KindSystem
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
