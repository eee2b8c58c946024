package config

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arcadegrid/arcadegrid-backend/pkg/env"
	"github.com/arcadegrid/arcadegrid-backend/pkg/validator"
)

type Config struct {
	devMode bool

	// Engine RPC port
	engineRPCPort string

	// ScyllaDB Host and Port
	databaseHostAddress string
	databaseHostPort    string

	// Redis address for the leaderboard cache, empty disables caching
	redisAddr string

	// Chain RPC URL for tip confirmation, empty disables the watcher
	chainRPCURL string

	// Confirmation watcher settings
	confirmerPollInterval time.Duration
	pendingTipMaxAge      time.Duration

	// Feed reconciliation sweep interval
	reconcileInterval time.Duration
}

var cfg Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	cfg = Config{
		devMode:               env.GetEnvBool("DEV_MODE", false),
		engineRPCPort:         env.GetEnvString("ENGINE_RPC_PORT", "9010"),
		databaseHostAddress:   env.GetEnvString("DATABASE_HOST_ADDRESS", "localhost"),
		databaseHostPort:      env.GetEnvString("DATABASE_HOST_PORT", "9042"),
		redisAddr:             env.GetEnvString("REDIS_ADDR", ""),
		chainRPCURL:           env.GetEnvString("CHAIN_RPC_URL", ""),
		confirmerPollInterval: env.GetEnvDuration("CONFIRMER_POLL_INTERVAL", 15*time.Second),
		pendingTipMaxAge:      env.GetEnvDuration("PENDING_TIP_MAX_AGE", 1*time.Hour),
		reconcileInterval:     env.GetEnvDuration("RECONCILE_INTERVAL", 1*time.Minute),
	}
	if err := validateConfig(); err != nil {
		return err
	}
	if !cfg.devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

func validateConfig() error {
	if !validator.IsValidPort(cfg.engineRPCPort) {
		return fmt.Errorf("invalid engine RPC port: %s", cfg.engineRPCPort)
	}
	if !validator.IsValidPort(cfg.databaseHostPort) {
		return fmt.Errorf("invalid database host port: %s", cfg.databaseHostPort)
	}
	if cfg.confirmerPollInterval <= 0 {
		return fmt.Errorf("confirmer poll interval must be positive")
	}
	if cfg.reconcileInterval <= 0 {
		return fmt.Errorf("reconcile interval must be positive")
	}
	return nil
}

func IsDevMode() bool {
	return cfg.devMode
}

func GetEngineRPCPort() string {
	return cfg.engineRPCPort
}

func GetDatabaseHostAddress() string {
	return cfg.databaseHostAddress
}

func GetDatabaseHostPort() string {
	return cfg.databaseHostPort
}

func GetRedisAddr() string {
	return cfg.redisAddr
}

func GetChainRPCURL() string {
	return cfg.chainRPCURL
}

func GetConfirmerPollInterval() time.Duration {
	return cfg.confirmerPollInterval
}

func GetPendingTipMaxAge() time.Duration {
	return cfg.pendingTipMaxAge
}

func GetReconcileInterval() time.Duration {
	return cfg.reconcileInterval
}
