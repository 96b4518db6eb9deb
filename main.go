package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tableside/api"
	"tableside/configs"
	"tableside/repository"
	"tableside/routes"
	"tableside/services"
	"tableside/utils"
	"tableside/ws"
)

func main() {
	cfg := configs.LoadConfig()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	// on-device storage (the kiosk's localStorage)
	db, err := configs.OpenStore(cfg.StorePath)
	if err != nil {
		logger.Fatalw("open local store failed", "path", cfg.StorePath, "error", err)
	}
	local := repository.NewLocalStore(db)
	session := repository.NewSessionStore()

	cartRepo := repository.NewCartRepository(local, logger)
	tableRepo := repository.NewTableRepository(local)
	snapRepo := repository.NewSnapshotRepository(session, local)

	// backend client
	tokens := utils.NewTokenStore()
	client := api.NewClient(cfg.APIBaseURL, utils.DeviceID(local), tokens.Token)

	// core services
	cart := services.NewCartService(cartRepo, logger)
	orders := services.NewOrderService(client, tableRepo, cart, tokens.Authed, logger)
	bridge := ws.NewBridge(cfg.WSURL, logger)
	tracker := services.NewOrderTracker(orders, bridge, logger)
	tracker.NoticeTTL = cfg.RejectNoticeTTL
	billing := services.NewBillingService(orders, client, snapRepo, tableRepo, cfg.ReturnURL, logger)
	billing.PollInterval = cfg.PollInterval
	defer billing.Close()

	startTracking := func(tableID string) {
		tracker.Stop()
		if err := tracker.Start(context.Background(), tableID); err != nil {
			logger.Warnw("tracker start failed", "table_id", tableID, "error", err)
		}
	}
	// resume tracking if a table was already scanned before a restart
	if t, err := tableRepo.Get(); err == nil {
		startTracking(t.ID)
	}

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, cfg, routes.Deps{
		Cart:          cart,
		Orders:        orders,
		Tracker:       tracker,
		Billing:       billing,
		Tables:        tableRepo,
		Tokens:        tokens,
		StartTracking: startTracking,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Infow("🚀 tableside gateway running", "addr", addr, "backend", cfg.APIBaseURL)
	if err := r.Run(addr); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
