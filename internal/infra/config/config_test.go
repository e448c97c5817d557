package config

import (
	"testing"
	"time"

	"github.com/Mihail0123/hausrunde/internal/domain/booking"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageMode != "memory" {
		t.Fatalf("default storage mode must be memory, got %q", cfg.StorageMode)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.SessionTTL)
	}
	if cfg.Currency != "EUR" {
		t.Fatalf("unexpected currency %q", cfg.Currency)
	}
	if cfg.BlockingPolicy.String() != booking.BlockConfirmedOnly.String() {
		t.Fatalf("default policy must block confirmed only, got %v", cfg.BlockingPolicy)
	}
	if cfg.KafkaEnabled() {
		t.Fatal("kafka must be disabled without brokers")
	}
}

func TestLoadMongoModeRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_MODE", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("mongo mode without MONGO_URI must fail")
	}
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MongoDB != "hausrunde" {
		t.Fatalf("unexpected db name %q", cfg.MongoDB)
	}
}

func TestLoadBlockingPolicy(t *testing.T) {
	t.Setenv("BLOCKING_POLICY", "pending+confirmed")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BlockingPolicy.String() != booking.BlockPendingAndConfirmed.String() {
		t.Fatalf("unexpected policy %v", cfg.BlockingPolicy)
	}

	t.Setenv("BLOCKING_POLICY", "whenever")
	if _, err := Load(); err == nil {
		t.Fatal("unknown policy must fail")
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("invalid SESSION_TTL must fail")
	}
}
