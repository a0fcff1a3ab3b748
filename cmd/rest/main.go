package main

import (
	"context"
	"log"

	"invoiceflow-be/internal/bootstrap"
	"invoiceflow-be/internal/config"
	"invoiceflow-be/internal/server"
	"invoiceflow-be/internal/tracer"
	"invoiceflow-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.Init()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Webhook Dispatcher...")
		if err := container.Dispatcher.Run(context.Background()); err != nil {
			log.Printf("Background Dispatcher Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Billing Sweeps...")
		container.SweepService.Start(context.Background())
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
