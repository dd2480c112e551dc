package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	BridgeBaseURL string
	BridgeWSURL   string

	SteamAPIKey string

	CommandPrefix string

	ChannelAllowlist      []string
	AllowDirectMessages   bool
	RequireFullProfileURL bool

	MaxDailyRequestsPerUser int
	MaxTotalDailyRequests   int

	AllowImagePosting bool
	ImageCooldown     time.Duration
	ImagePath         string

	StoreBackend string
	SteamIDFile  string
	RedisURL     string
	DatabaseURL  string

	MessageDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		CommandPrefix:           "!",
		AllowDirectMessages:     true,
		MaxDailyRequestsPerUser: 10,
		MaxTotalDailyRequests:   500,
		AllowImagePosting:       true,
		ImageCooldown:           10 * time.Minute,
		ImagePath:               "public_profile_instructions.jpg",
		StoreBackend:            "file",
		SteamIDFile:             "steam_ids.txt",
	}

	cfg.BridgeBaseURL = strings.TrimSpace(os.Getenv("BRIDGE_BASE_URL"))
	cfg.BridgeWSURL = strings.TrimSpace(os.Getenv("BRIDGE_WS_URL"))
	cfg.SteamAPIKey = strings.TrimSpace(os.Getenv("STEAM_API_KEY"))

	if v := strings.TrimSpace(os.Getenv("COMMAND_PREFIX")); v != "" {
		cfg.CommandPrefix = v
	}

	if v := strings.TrimSpace(os.Getenv("CHANNEL_ALLOWLIST")); v != "" {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.ChannelAllowlist = append(cfg.ChannelAllowlist, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("ALLOW_DIRECT_MESSAGES")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowDirectMessages = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("REQUIRE_FULL_PROFILE_URL")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RequireFullProfileURL = b
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAX_DAILY_REQUESTS_PER_USER")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDailyRequestsPerUser = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_TOTAL_DAILY_REQUESTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTotalDailyRequests = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("ALLOW_IMAGE_POSTING")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowImagePosting = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_COOLDOWN")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ImageCooldown = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_PATH")); v != "" {
		cfg.ImagePath = v
	}

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))); v != "" {
		cfg.StoreBackend = v
	}
	if v := strings.TrimSpace(os.Getenv("STEAM_ID_FILE")); v != "" {
		cfg.SteamIDFile = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessageDir = strings.TrimSpace(os.Getenv("MESSAGE_DIR"))

	if cfg.BridgeBaseURL == "" {
		return nil, errors.New("BRIDGE_BASE_URL is required")
	}
	if cfg.BridgeWSURL == "" {
		return nil, errors.New("BRIDGE_WS_URL is required")
	}
	if cfg.SteamAPIKey == "" {
		return nil, errors.New("STEAM_API_KEY is required")
	}
	switch cfg.StoreBackend {
	case "file", "redis", "postgres":
	default:
		return nil, errors.New("STORE_BACKEND must be one of file, redis, postgres")
	}
	if cfg.StoreBackend == "redis" && cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required for the redis store backend")
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store backend")
	}

	return cfg, nil
}
