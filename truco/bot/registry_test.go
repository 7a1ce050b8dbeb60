package bot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromJSONAddsAndOverrides(t *testing.T) {
	r := NewDefaultRegistry()
	base := r.Count()

	err := r.LoadFromJSON([]byte(`[
		{"id":"zefa","name":"Zefa","tagline":"bluffs with a smile",
		 "brain":{"aggression":0.8,"caution":0.3,"bluffing":0.9,"randomness":0.2}},
		{"id":"juca","name":"Juca Renovado",
		 "brain":{"aggression":0.5,"caution":0.5,"bluffing":0.5,"randomness":0.5}}
	]`))
	if err != nil {
		t.Fatalf("LoadFromJSON err: %v", err)
	}

	if got := r.Count(); got != base+1 {
		t.Fatalf("count = %d, want %d (one new, one override)", got, base+1)
	}
	zefa := r.Get("zefa")
	if zefa == nil || zefa.Brain.Bluffing != 0.9 {
		t.Fatalf("new persona not loaded: %+v", zefa)
	}
	juca := r.Get("juca")
	if juca == nil || juca.Name != "Juca Renovado" {
		t.Fatalf("existing persona not overridden: %+v", juca)
	}
}

func TestLoadFromJSONSkipsEmptyID(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadFromJSON([]byte(`[{"name":"Sem Nome"}]`)); err != nil {
		t.Fatalf("LoadFromJSON err: %v", err)
	}
	if r.Count() != 0 {
		t.Fatalf("persona without id must be skipped, count = %d", r.Count())
	}
}

func TestLoadFromJSONRejectsMalformed(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadFromJSON([]byte(`{"not":"a list"`)); err == nil {
		t.Fatal("malformed JSON must fail")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.json")
	payload := `[{"id":"zefa","name":"Zefa","brain":{"aggression":0.8,"caution":0.3,"bluffing":0.9,"randomness":0.2}}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile err: %v", err)
	}
	if r.Get("zefa") == nil {
		t.Fatal("persona from file not registered")
	}

	if err := r.LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file must fail")
	}
}
