package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"truco-lite/internal/auth"
	"truco-lite/internal/bus"
	"truco-lite/internal/gateway"
	"truco-lite/internal/journal"
	"truco-lite/internal/lobby"
	"truco-lite/internal/room"
	"truco-lite/internal/store"
	"truco-lite/truco/bot"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Server] Loaded .env")
	}

	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()

	gameStore, storeMode, err := store.NewFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init game store: %v", err)
	}
	defer gameStore.Close()

	journalService, err := journal.NewSQLiteServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init event journal: %v", err)
	}
	defer journalService.Close()

	eventBus := bus.New()
	journal.Attach(eventBus, journalService)

	personas := bot.NewDefaultRegistry()
	if path := os.Getenv("PERSONAS_FILE"); path != "" {
		if err := personas.LoadFromFile(path); err != nil {
			log.Fatalf("[Server] Failed to load personas from %s: %v", path, err)
		}
		log.Printf("[Server] Loaded personas from %s (%d total)", path, personas.Count())
	}
	botManager := bot.NewManager(personas)

	lby := lobby.New(room.Deps{
		Bus:        eventBus,
		Store:      gameStore,
		BotManager: botManager,
	})
	defer lby.Stop()

	if err := lby.Restore(context.Background()); err != nil {
		log.Printf("[Server] Restore incomplete: %v", err)
	}

	gw := gateway.New(lby, authService, eventBus)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	auth.RegisterRoutes(mux, authService)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Store mode: %s", storeMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
