package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	GRPCAddr  string
	APIToken  string
	JWTSecret string // empty disables JWT authentication

	StoreDriver  string
	DatabasePath string // sqlite
	DBConnStr    string // postgres

	InitialBalance decimal.Decimal
	Currency       string

	CoinrankingAPIKey  string
	CoinrankingBaseURL string
	CoinLimit          int
	PriceCacheTTL      time.Duration
	PriceRateLimit     float64 // outbound requests per second

	LogLevel  string
	LogPretty bool
}

// LookupFunc reads a raw setting, like os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// a .env file if present, and the process environment. Environment values win.
func Load() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// LoadFrom builds a Config from the YAML file at path (may be empty) overlaid
// with values from lookupEnv.
// YAML keys are the lower-case environment names, e.g. initial_balance.
func LoadFrom(path string, lookupEnv LookupFunc) (*Config, error) {
	fileValues := map[string]string{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fileValues); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	s := settings{env: lookupEnv, file: fileValues}

	cfg := &Config{
		GRPCAddr:           s.get("GRPC_ADDR", ":8080"),
		APIToken:           s.get("API_TOKEN", "dev-token"),
		JWTSecret:          s.get("JWT_SECRET", ""),
		StoreDriver:        strings.ToLower(s.get("STORE_DRIVER", DriverSQLite)),
		DatabasePath:       s.get("DATABASE_PATH", "./paperwallet.db"),
		DBConnStr:          s.get("DB_CONN_STR", ""),
		Currency:           strings.ToUpper(s.get("CURRENCY", money.USD)),
		CoinrankingAPIKey:  s.get("COINRANKING_API_KEY", ""),
		CoinrankingBaseURL: strings.TrimRight(s.get("COINRANKING_BASE_URL", "https://api.coinranking.com/v2"), "/"),
		LogLevel:           s.get("LOG_LEVEL", "info"),
	}

	if cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			s.get("DB_HOST", "localhost"),
			s.get("DB_PORT", "5432"),
			s.get("DB_USER", "postgres"),
			s.get("DB_PASSWORD", "postgres"),
			s.get("DB_NAME", "paperwallet"),
		)
	}

	var err error
	var errs []error

	if cfg.InitialBalance, err = decimal.NewFromString(s.get("INITIAL_BALANCE", "10000")); err != nil {
		errs = append(errs, fmt.Errorf("INITIAL_BALANCE: %w", err))
	}
	if cfg.CoinLimit, err = strconv.Atoi(s.get("COIN_LIMIT", "50")); err != nil {
		errs = append(errs, fmt.Errorf("COIN_LIMIT: %w", err))
	}
	if cfg.PriceCacheTTL, err = time.ParseDuration(s.get("PRICE_CACHE_TTL", "1m")); err != nil {
		errs = append(errs, fmt.Errorf("PRICE_CACHE_TTL: %w", err))
	}
	if cfg.PriceRateLimit, err = strconv.ParseFloat(s.get("PRICE_RATE_LIMIT", "5"), 64); err != nil {
		errs = append(errs, fmt.Errorf("PRICE_RATE_LIMIT: %w", err))
	}
	if cfg.LogPretty, err = strconv.ParseBool(s.get("LOG_PRETTY", "false")); err != nil {
		errs = append(errs, fmt.Errorf("LOG_PRETTY: %w", err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.GRPCAddr == "" {
		return errors.New("GRPC_ADDR cannot be empty")
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH cannot be empty for the sqlite store")
		}
	case DriverPostgres:
		if c.DBConnStr == "" {
			return errors.New("DB_CONN_STR cannot be empty for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want sqlite, postgres or memory)", c.StoreDriver)
	}
	if c.InitialBalance.IsNegative() {
		return errors.New("INITIAL_BALANCE cannot be negative")
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("unknown CURRENCY %q", c.Currency)
	}
	if c.CoinLimit < 1 || c.CoinLimit > 100 {
		return errors.New("COIN_LIMIT must be between 1 and 100")
	}
	if c.PriceCacheTTL < 0 {
		return errors.New("PRICE_CACHE_TTL cannot be negative")
	}
	if c.PriceRateLimit <= 0 {
		return errors.New("PRICE_RATE_LIMIT must be positive")
	}
	return nil
}

// settings resolves a key from the environment first, then the config file
type settings struct {
	env  LookupFunc
	file map[string]string
}

func (s settings) get(key, def string) string {
	if s.env != nil {
		if v, ok := s.env(key); ok && v != "" {
			return v
		}
	}
	if v, ok := s.file[strings.ToLower(key)]; ok && v != "" {
		return v
	}
	return def
}
