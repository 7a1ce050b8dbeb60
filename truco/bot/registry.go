package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// PersonaRegistry holds all bot persona definitions.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*Persona
}

// NewRegistry creates an empty registry.
func NewRegistry() *PersonaRegistry {
	return &PersonaRegistry{
		personas: make(map[string]*Persona),
	}
}

// NewDefaultRegistry returns a registry preloaded with the built-in cast.
func NewDefaultRegistry() *PersonaRegistry {
	r := NewRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range defaultPersonas {
		r.personas[p.ID] = p
	}
	return r
}

var defaultPersonas = []*Persona{
	{
		ID:      "tiao",
		Name:    "Tião",
		Tagline: "calls truco before looking at his cards",
		Brain:   PersonalityProfile{Aggression: 0.9, Caution: 0.2, Bluffing: 0.7, Randomness: 0.3},
	},
	{
		ID:      "dona_lurdes",
		Name:    "Dona Lurdes",
		Tagline: "forty years of bar-table truco",
		Brain:   PersonalityProfile{Aggression: 0.5, Caution: 0.6, Bluffing: 0.3, Randomness: 0.1},
	},
	{
		ID:      "juca",
		Name:    "Juca",
		Tagline: "only accepts with the zap in hand",
		Brain:   PersonalityProfile{Aggression: 0.2, Caution: 0.9, Bluffing: 0.05, Randomness: 0.1},
	},
	{
		ID:      "seu_chico",
		Name:    "Seu Chico",
		Tagline: "nobody can read him",
		Brain:   PersonalityProfile{Aggression: 0.6, Caution: 0.4, Bluffing: 0.5, Randomness: 0.6},
	},
}

// LoadFromFile loads bot personas from a JSON file.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON loads bot personas from raw JSON bytes.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []*Persona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if p.ID == "" {
			continue
		}
		r.personas[p.ID] = p
	}
	return nil
}

// Get returns a persona by ID.
func (r *PersonaRegistry) Get(id string) *Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id]
}

// All returns a snapshot of all personas.
func (r *PersonaRegistry) All() []*Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	return out
}

// Count returns the total number of registered personas.
func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}
