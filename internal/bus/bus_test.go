package bus

import (
	"testing"

	"truco-lite/truco"

	"github.com/google/go-cmp/cmp"
)

func publishN(b *Bus, gameID string, n int) {
	for i := 0; i < n; i++ {
		b.Publish(gameID, uint64(i+1), truco.Event{Kind: truco.EventCardPlayed})
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()

	var seqs []uint64
	b.Subscribe("g1", func(gameID string, seq uint64, evt truco.Event) {
		seqs = append(seqs, seq)
	})

	publishN(b, "g1", 3)

	if diff := cmp.Diff([]uint64{1, 2, 3}, seqs); diff != "" {
		t.Fatalf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopicIsolation(t *testing.T) {
	b := New()

	var g1, g2 int
	b.Subscribe("g1", func(string, uint64, truco.Event) { g1++ })
	b.Subscribe("g2", func(string, uint64, truco.Event) { g2++ })

	publishN(b, "g1", 2)
	publishN(b, "g2", 1)

	if g1 != 2 || g2 != 1 {
		t.Fatalf("g1=%d g2=%d, want 2 and 1", g1, g2)
	}
}

func TestTopicAllSeesEveryGame(t *testing.T) {
	b := New()

	var gameIDs []string
	b.Subscribe(TopicAll, func(gameID string, seq uint64, evt truco.Event) {
		gameIDs = append(gameIDs, gameID)
	})

	publishN(b, "g1", 1)
	publishN(b, "g2", 1)

	if diff := cmp.Diff([]string{"g1", "g2"}, gameIDs); diff != "" {
		t.Fatalf("TopicAll deliveries mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()

	var count int
	cancel := b.Subscribe("g1", func(string, uint64, truco.Event) { count++ })

	publishN(b, "g1", 1)
	cancel()
	publishN(b, "g1", 2)

	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	b := New()

	var survived int
	b.Subscribe("g1", func(string, uint64, truco.Event) { panic("boom") })
	b.Subscribe("g1", func(string, uint64, truco.Event) { survived++ })

	publishN(b, "g1", 1)

	if survived != 1 {
		t.Fatalf("second handler ran %d times, want 1", survived)
	}
}
