package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	ServiceName string
	Env         string
	HTTPPort    string

	StorageBackend string // memory | postgres

	DBUser  string
	DBPass  string
	DBHost  string
	DBPort  string
	DBName  string
	SSLMode string

	// Optional remote collaborator base URLs. When empty the coordinator is
	// wired to the in-process ledgers.
	InventoryURL string
	WalletURL    string

	GatewayTimeout time.Duration
}

// New loads configuration from the environment (a .env file is honored when
// present) and validates the combinations that have to be complete.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:    getenvDefault("SERVICE_NAME", "commerce"),
		Env:            getenvDefault("ENV", "dev"),
		HTTPPort:       getenvDefault("HTTP_PORT", "8080"),
		StorageBackend: getenvDefault("STORAGE_BACKEND", BackendMemory),
		DBUser:         os.Getenv("POSTGRES_USER"),
		DBPass:         os.Getenv("POSTGRES_PASSWORD"),
		DBHost:         os.Getenv("POSTGRES_HOST"),
		DBPort:         getenvDefault("POSTGRES_PORT", "5432"),
		DBName:         os.Getenv("POSTGRES_DB"),
		SSLMode:        getenvDefault("POSTGRES_SSLMODE", "disable"),
		InventoryURL:   os.Getenv("INVENTORY_URL"),
		WalletURL:      os.Getenv("WALLET_URL"),
		GatewayTimeout: time.Duration(getenvInt("GATEWAY_TIMEOUT_MS", 3000)) * time.Millisecond,
	}

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DBUser == "" || cfg.DBHost == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("missing required env for postgres backend: POSTGRES_USER/HOST/DB")
		}
	default:
		return nil, fmt.Errorf("invalid storage backend %q, must be %q or %q", cfg.StorageBackend, BackendMemory, BackendPostgres)
	}

	// Remote mode needs both collaborators: the saga cannot mix a remote
	// inventory with a local wallet without losing the compensation pairing.
	if (cfg.InventoryURL == "") != (cfg.WalletURL == "") {
		return nil, fmt.Errorf("INVENTORY_URL and WALLET_URL must be set together")
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName, c.SSLMode)
}

func (c *Config) HTTPAddr() string {
	return ":" + c.HTTPPort
}

// RemoteGateways reports whether the coordinator should call the collaborator
// services over HTTP instead of the in-process ledgers.
func (c *Config) RemoteGateways() bool {
	return c.InventoryURL != "" && c.WalletURL != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
