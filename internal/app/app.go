package app

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-storefront/internal/commerce"
	"go-storefront/internal/pkg/bus"
	"go-storefront/internal/session"
	"go-storefront/internal/storage"
)

type Config struct {
	CommerceAPIURL string
	RedisAddr      string
	StorageDir     string
	SessionIdleTTL time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		CommerceAPIURL: os.Getenv("COMMERCE_API_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		StorageDir:     os.Getenv("STORAGE_DIR"),
		SessionIdleTTL: 30 * time.Minute,
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data"
	}
	if raw := os.Getenv("SESSION_IDLE_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			cfg.SessionIdleTTL = ttl
		}
	}
	return cfg
}

// BuildApp wires infrastructure, stores and routes onto the router. Cart
// blobs live in Redis when REDIS_ADDR is set, on disk otherwise.
func BuildApp(router *gin.Engine, logger *zap.Logger) error {
	cfg := LoadConfig()
	if cfg.CommerceAPIURL == "" {
		return fmt.Errorf("COMMERCE_API_URL is required")
	}

	var blobStore storage.Store
	if cfg.RedisAddr != "" {
		redisClient, err := connectRedisWithRetry(cfg.RedisAddr, 5, logger)
		if err != nil {
			return err
		}
		blobStore = storage.NewRedisStore(redisClient, "storefront")
	} else {
		fileStore, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			return err
		}
		blobStore = fileStore
	}

	manager := session.NewManager(session.Deps{
		NewClient: func(signals *bus.Bus) commerce.Client {
			return commerce.NewHTTPClient(cfg.CommerceAPIURL, signals)
		},
		Storage: blobStore,
		Logger:  logger,
		IdleTTL: cfg.SessionIdleTTL,
	})

	// Catalog reads are anonymous and shared across visitors.
	catalogClient := commerce.NewHTTPClient(cfg.CommerceAPIURL, bus.New())

	registerModules(router, manager, catalogClient, logger)
	return nil
}
