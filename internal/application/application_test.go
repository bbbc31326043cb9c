package application

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/parcelops/optimizer/internal/config"
	"github.com/parcelops/optimizer/internal/optimizer"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.DefaultBilling = optimizer.Params{MaxWeight: 8, UnitCost: 3, DeliveryFee: 2, MinDeliveryWeight: 1}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	billing, err := app.storage.GetBilling()
	if err != nil {
		t.Fatalf("GetBilling returned error: %v", err)
	}
	if billing != cfg.DefaultBilling {
		t.Fatalf("expected billing %+v, got %+v", cfg.DefaultBilling, billing)
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.engine == nil {
		t.Fatalf("expected server, router, handler, and engine to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidBilling(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.DefaultBilling = optimizer.Params{}

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for invalid billing parameters")
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		DefaultBilling:       optimizer.Params{MaxWeight: 30, UnitCost: 10, DeliveryFee: 25, MinDeliveryWeight: 5},
		ExactItemLimit:       optimizer.DefaultExactItemLimit,
		SearchTimeout:        time.Second,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
