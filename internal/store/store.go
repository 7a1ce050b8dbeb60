// Package store persists game state between commands so a crashed or
// restarted server can resume in-flight games.
package store

import (
	"context"
	"errors"
	"time"

	"truco-lite/truco"
)

var ErrNotFound = errors.New("game not found")

// Store is the persistence contract. Save is called by the room actor
// after every applied command, so implementations must tolerate frequent
// small writes.
type Store interface {
	Save(ctx context.Context, st truco.GameState) error
	Load(ctx context.Context, gameID string) (truco.GameState, error)
	Delete(ctx context.Context, gameID string) error

	// List returns every saved game, most recently updated first. Used to
	// re-open rooms after a restart.
	List(ctx context.Context) ([]truco.GameState, error)

	// ListIdle returns IDs of games not updated since the cutoff. The
	// lobby sweeper feeds these to Delete.
	ListIdle(ctx context.Context, cutoff time.Time) ([]string, error)

	Close() error
}
