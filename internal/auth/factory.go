package auth

import (
	"fmt"
	"os"
	"strings"
)

// NewServiceFromEnv selects the auth backend via AUTH_MODE:
//
//	memory (default) - standalone in-memory accounts, lost on restart
//	db               - postgres-backed accounts and sessions
func NewServiceFromEnv() (Service, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if mode == "" {
		mode = "memory"
	}

	switch mode {
	case "memory":
		return NewManager(), mode, nil
	case "db":
		svc, err := NewPostgresManager(authDSNFromEnv(), sessionTTLFromEnv())
		if err != nil {
			return nil, mode, err
		}
		return svc, mode, nil
	default:
		return nil, mode, fmt.Errorf("auth: unknown AUTH_MODE %q", mode)
	}
}
