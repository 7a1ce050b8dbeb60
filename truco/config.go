package truco

import "fmt"

type Config struct {
	// NoveVariant inserts the nove(10) rung between seis and doze.
	NoveVariant bool

	// RevealAll disables per-seat hand redaction in views. Used by
	// replays and spectator debugging, never by live play.
	RevealAll bool

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.Seed < 0 {
		return fmt.Errorf("Seed must be >= 0")
	}
	return nil
}
