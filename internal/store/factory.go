package store

import (
	"fmt"
	"os"
	"strings"
)

const (
	StoreModeMemory = "memory"
	StoreModeDB     = "db"
)

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_MODE")))
	switch raw {
	case "", StoreModeMemory, "mem":
		return StoreModeMemory
	case StoreModeDB, "postgres", "postgresql":
		return StoreModeDB
	default:
		return raw
	}
}

func NewFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case StoreModeMemory:
		return NewMemoryStore(), mode, nil
	case StoreModeDB:
		s, err := NewPostgresStore(storeDSNFromEnv(os.Getenv))
		if err != nil {
			return nil, mode, err
		}
		return s, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid STORE_MODE %q (supported: %s, %s)", mode, StoreModeMemory, StoreModeDB)
	}
}
