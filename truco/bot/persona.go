package bot

// PersonalityProfile defines the tunable parameters for a RuleBrain.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0–1.0: tendency to call and raise
	Caution    float64 `json:"caution"`    // 0.0–1.0: how strong a hand must be to accept a call
	Bluffing   float64 `json:"bluffing"`   // 0.0–1.0: truco-on-nothing frequency
	Randomness float64 `json:"randomness"` // 0.0–1.0: decision noise
}

// Persona defines a named bot character.
type Persona struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Tagline string             `json:"tagline"`
	Brain   PersonalityProfile `json:"brain"`
}
