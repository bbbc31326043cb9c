package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/parcelops/optimizer/internal/application"
	"github.com/parcelops/optimizer/internal/config"
	"github.com/parcelops/optimizer/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("parcel-optimizer", "Parcel Optimizer - partitions weighted items into packages minimizing billing cost")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	maxWeightFlag := kingpinApp.Flag("max-weight", "Default maximum package weight").Default("-1").Float64()
	unitCostFlag := kingpinApp.Flag("unit-cost", "Default cost per billable weight unit").Default("-1").Float64()
	deliveryFeeFlag := kingpinApp.Flag("delivery-fee", "Default surcharge for packages below the minimum delivery weight").Default("-1").Float64()
	minDeliveryFlag := kingpinApp.Flag("min-delivery-weight", "Default weight threshold for the delivery surcharge").Default("-1").Float64()
	exactItemLimitFlag := kingpinApp.Flag("exact-item-limit", "Maximum item count accepted in exact mode").Default("0").Int()
	searchTimeoutFlag := kingpinApp.Flag("search-timeout", "Per-request time budget for the exact search").Default("0s").Duration()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *maxWeightFlag > 0 {
		overrides.MaxWeight = maxWeightFlag
	}
	if *unitCostFlag >= 0 {
		overrides.UnitCost = unitCostFlag
	}
	if *deliveryFeeFlag >= 0 {
		overrides.DeliveryFee = deliveryFeeFlag
	}
	if *minDeliveryFlag >= 0 {
		overrides.MinDeliveryWeight = minDeliveryFlag
	}

	if *exactItemLimitFlag > 0 {
		overrides.ExactItemLimit = exactItemLimitFlag
	}

	if *searchTimeoutFlag > 0 {
		overrides.SearchTimeout = searchTimeoutFlag
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New("parcel-optimizer")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
