// Package journal is the append-only event tape. Every event a room
// publishes lands here, so a finished game can be audited or replayed
// hand by hand.
package journal

import (
	"context"
	"time"

	"truco-lite/internal/bus"
	"truco-lite/truco"
)

// Entry is one journaled event.
type Entry struct {
	GameID    string          `json:"gameId"`
	Seq       uint64          `json:"seq"`
	Kind      truco.EventKind `json:"kind"`
	Payload   []byte          `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Service interface {
	Append(ctx context.Context, e Entry) error
	ListByGame(ctx context.Context, gameID string, limit int) ([]Entry, error)
	Close() error
}

// Attach subscribes the journal to every game on the bus. Snapshots are
// deliberately not journaled; the payload alone replays.
func Attach(b *bus.Bus, svc Service) (cancel func()) {
	return b.Subscribe(bus.TopicAll, func(gameID string, seq uint64, evt truco.Event) {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelCtx()
		_ = svc.Append(ctx, Entry{
			GameID:    gameID,
			Seq:       seq,
			Kind:      evt.Kind,
			Payload:   marshalPayload(evt.Payload),
			CreatedAt: time.Now().UTC(),
		})
	})
}
