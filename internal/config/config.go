package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

// TSIGKey holds the shared-secret credentials used to sign transfer
// and update requests.
type TSIGKey struct {
	Name      string
	Algorithm string
	Secret    string
}

type Config struct {
	Server string
	Port   int
	View   string
	TSIG   TSIGKey

	ZoneOutputDir string
	TemplatesDir  string

	NamedCheckzoneBin string
	RNDCBin           string
	RNDCServer        string

	SerialStrategy string
	DefaultTTL     int

	GitAutoCommit     bool
	GitCommitTemplate string

	LogLevel      string
	AXFRTimeout   time.Duration
	ApplyStrategy entity.ApplyStrategy

	MaxRemovalRatio float64
}

// Addr returns the transfer/update endpoint as host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}

// Load reads configuration from the environment, consulting .env in
// the working directory when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tsig, err := loadTSIG()
	if err != nil {
		return nil, domain.WrapOp("load TSIG key", err)
	}

	port, err := envInt("BIND_PORT", 53)
	if err != nil {
		return nil, err
	}
	defaultTTL, err := envInt("DEFAULT_RECORD_TTL", 3600)
	if err != nil {
		return nil, err
	}
	timeoutSec, err := envFloat("AXFR_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}
	ratio, err := envFloat("MAX_REMOVAL_RATIO", 0.5)
	if err != nil {
		return nil, err
	}

	strategy, err := entity.ParseStrategy(envOr("APPLY_STRATEGY", string(entity.StrategyDynamic)))
	if err != nil {
		return nil, err
	}

	server := envOr("BIND_SERVER", "127.0.0.1")

	cfg := &Config{
		Server:            server,
		Port:              port,
		View:              envOr("BIND_VIEW", "default"),
		TSIG:              tsig,
		ZoneOutputDir:     envOr("ZONE_OUTPUT_DIR", "zones"),
		TemplatesDir:      os.Getenv("TEMPLATES_DIR"),
		NamedCheckzoneBin: envOr("NAMED_CHECKZONE_BIN", "named-checkzone"),
		RNDCBin:           envOr("RNDC_BIN", "rndc"),
		RNDCServer:        envOr("RNDC_SERVER", server),
		SerialStrategy:    envOr("SERIAL_STRATEGY", "date"),
		DefaultTTL:        defaultTTL,
		GitAutoCommit:     envBool("GIT_AUTO_COMMIT", false),
		GitCommitTemplate: envOr("GIT_COMMIT_TEMPLATE", "feat(zone): update {zone}"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		AXFRTimeout:       time.Duration(timeoutSec * float64(time.Second)),
		ApplyStrategy:     strategy,
		MaxRemovalRatio:   ratio,
	}

	if cfg.DefaultTTL < 0 {
		return nil, fmt.Errorf("%w: DEFAULT_RECORD_TTL must be non-negative", domain.ErrInvalidTTL)
	}
	if cfg.MaxRemovalRatio < 0 || cfg.MaxRemovalRatio > 1 {
		return nil, fmt.Errorf("%w: MAX_REMOVAL_RATIO must be within [0,1]", domain.ErrConfigParseFailed)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrConfigParseFailed, key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrConfigParseFailed, key, v)
	}
	return f, nil
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
