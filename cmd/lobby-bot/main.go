package main

import (
	"context"
	"encoding/base64"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsmrpeck/sglobbylink-go/internal/bot"
	appcfg "github.com/itsmrpeck/sglobbylink-go/internal/config"
	"github.com/itsmrpeck/sglobbylink-go/internal/gateway"
	"github.com/itsmrpeck/sglobbylink-go/internal/identity"
	"github.com/itsmrpeck/sglobbylink-go/internal/lobby"
	"github.com/itsmrpeck/sglobbylink-go/internal/msgcat"
	"github.com/itsmrpeck/sglobbylink-go/internal/obslog"
	"github.com/itsmrpeck/sglobbylink-go/internal/quota"
	"github.com/itsmrpeck/sglobbylink-go/internal/steam"
	"go.uber.org/zap"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	catalog, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	repo, err := newRepository(cfg)
	if err != nil {
		log.Fatalf("identity repository init error: %v", err)
	}
	store := identity.NewStore(repo)

	client := gateway.NewClient(cfg.BridgeBaseURL)
	ws := gateway.NewWebSocket(cfg.BridgeWSURL, 5, time.Second)
	ws.OnStateChange(func(state gateway.WebSocketState) {
		obslog.L().Info("ws_state", zap.String("state", string(state)))
	})
	egress := gateway.NewEgress("auto", false, client, ws, obslog.L())

	steamClient := steam.NewClient(cfg.SteamAPIKey)
	tracker := quota.NewTracker(cfg.MaxDailyRequestsPerUser, cfg.MaxTotalDailyRequests)

	dispatcher := bot.NewDispatcher(cfg, bot.Deps{
		Quota:    tracker,
		Parser:   identity.NewParser(steamClient, cfg.RequireFullProfileURL),
		Store:    store,
		Resolver: lobby.NewResolver(steamClient),
		Cooldown: lobby.NewCooldown(cfg.AllowImagePosting, cfg.ImageCooldown),
		Egress:   egress,
		Catalog:  catalog,
	})

	if cfg.AllowImagePosting {
		if raw, err := os.ReadFile(cfg.ImagePath); err == nil {
			dispatcher.SetImage(base64.StdEncoding.EncodeToString(raw))
		} else {
			obslog.L().Warn("image_unavailable", zap.String("path", cfg.ImagePath), zap.Error(err))
		}
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	ws.OnReady(func() {
		store.Load(rootCtx)
		go tracker.ResetLoop(rootCtx)
	})

	ws.OnMessage(func(msg *gateway.Message) {
		if msg == nil || msg.Content == "" {
			return
		}
		// Avoid blocking the WS loop
		go dispatcher.Handle(rootCtx, msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
	closeRepository(repo)
}

func newRepository(cfg *appcfg.AppConfig) (identity.Repository, error) {
	switch cfg.StoreBackend {
	case "redis":
		return identity.NewRedisRepository(cfg.RedisURL)
	case "postgres":
		return identity.NewPostgresRepository(cfg.DatabaseURL)
	default:
		return identity.NewFileRepository(cfg.SteamIDFile), nil
	}
}

func closeRepository(repo identity.Repository) {
	if c, ok := repo.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
