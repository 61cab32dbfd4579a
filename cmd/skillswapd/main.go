package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MelvinDenish/Skill-Swap/internal/api"
	"github.com/MelvinDenish/Skill-Swap/internal/chat"
	"github.com/MelvinDenish/Skill-Swap/internal/config"
	"github.com/MelvinDenish/Skill-Swap/internal/db"
	"github.com/MelvinDenish/Skill-Swap/internal/draft"
	"github.com/MelvinDenish/Skill-Swap/internal/gateway"
	"github.com/MelvinDenish/Skill-Swap/internal/realtime"
	"github.com/MelvinDenish/Skill-Swap/internal/session"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("main")

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05.000} [%{level}] [%{module}] %{message}`)
	logging.SetBackend(logging.NewBackendFormatter(backend, format))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	if err := os.MkdirAll(cfg.Local.DataDir, 0700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.NewClientDB(filepath.Join(cfg.Local.DataDir, "client.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	sessions := session.NewStore(database)
	client := api.NewClient(cfg.Backend.APIBaseURL, sessions)
	client.SetUnauthorizedHandler(sessions.ForceLogout)
	sessions.SetServerLogout(client.Logout)

	transport := realtime.NewStompTransport(cfg.Backend.WebSocketURL, cfg.Realtime.HeartBeat)
	channels := realtime.NewManager(transport, realtime.FixedDelay(cfg.Realtime.ReconnectDelay))
	defer channels.Close()

	gw := gateway.New(database, client, sessions, channels)
	cache := chat.NewCache(client, database, gw.BroadcastMessages)
	gw.SetCache(cache)
	gw.SetDrafts(draft.NewStore(database))

	// Resume a persisted session: fetch the profile if missing, then open
	// the live channels.
	if sessions.IsAuthenticated() {
		go func() {
			if sessions.User() == nil {
				user, err := client.Me(context.Background())
				if err != nil {
					log.Warningf("Profile refresh failed: %v", err)
				} else {
					sessions.SetUser(user)
				}
			}
			if !sessions.IsAuthenticated() {
				// The refresh hit a 401 and forced logout.
				return
			}
			gw.StartRealtime()
			if err := cache.RefreshConversations(context.Background()); err != nil {
				log.Warningf("Conversation refresh failed: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/api/login", gw.HandleLogin)
	mux.HandleFunc("/api/logout", gw.HandleLogout)
	mux.HandleFunc("/api/session", gw.HandleSession)
	mux.HandleFunc("/api/conversations", gw.HandleConversations)
	mux.HandleFunc("/api/preferences", gw.HandlePreferences)
	mux.HandleFunc("/api/assistant", gw.HandleAssistant)

	httpServer := &http.Server{
		Addr:    cfg.Local.ListenAddr,
		Handler: mux,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Infof("Shutting down...")
		httpServer.Shutdown(context.Background())
	}()

	log.Infof("SkillSwap client running at http://%s", cfg.Local.ListenAddr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
