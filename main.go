package main

import (
	"context"
	"time"

	"github.com/cppla/codeshare/config"
	"github.com/cppla/codeshare/engine"
	"github.com/cppla/codeshare/realtime"
	"github.com/cppla/codeshare/routes"
	"github.com/cppla/codeshare/store"
	"github.com/cppla/codeshare/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	st, err := store.New(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open %s store: %v", cfg.StoreDriver, err)
	}

	hub := realtime.NewHub(realtime.WithAllowedOrigins(cfg.AllowedOrigins))
	eng := engine.New(st, hub, engine.WithLogger(utils.Logger.Named("engine")))

	r, err := routes.SetupRouter(eng, hub)
	if err != nil {
		utils.Sugar.Fatalf("setup router: %v", err)
	}

	// Start background cleanup for expired uploads (best-effort)
	cleanerCtx, stopCleaner := context.WithCancel(context.Background())
	if cfg.UploadTTLMinutes > 0 {
		utils.StartUploadCleaner(cleanerCtx, cfg.UploadDir, time.Duration(cfg.UploadTTLMinutes)*time.Minute, 5*time.Minute)
	}

	hooks := []utils.ShutdownHook{
		func(context.Context) error { stopCleaner(); return nil },
		hub.Shutdown,
		func(context.Context) error { return st.Close() },
	}
	if rc := utils.GetRedis(); rc != nil {
		hooks = append(hooks, func(context.Context) error { return rc.Close() })
	}

	utils.Sugar.Infof("Starting server on port %s (graceful), store=%s", cfg.AppPort, cfg.StoreDriver)
	if err := utils.GraceServer(":"+cfg.AppPort, r, hooks...); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
