package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		Port       string `env:"PORT" envDefault:"5260"`
		DBPath     string `env:"DB_PATH" envDefault:"database/shelterly.db"`
		UserDBPath string `env:"USER_DB_PATH" envDefault:"database/shelterly_users.db"`
		CacheDir   string `env:"CACHE_DIR" envDefault:""`
	}

	Listings struct {
		// Cached listing snapshots older than this are refetched
		CacheTTLMinutes int `env:"LISTING_CACHE_TTL" envDefault:"30"`

		// Radius for geographic search in kilometers
		GeoRadiusKM float64 `env:"GEO_RADIUS_KM" envDefault:"5"`

		// Minimum tier price below this counts as "budget" in free-text search
		BudgetPriceThreshold int `env:"BUDGET_PRICE_THRESHOLD" envDefault:"10000"`

		// Rating at or above this counts as "premium"
		PremiumRatingThreshold float64 `env:"PREMIUM_RATING_THRESHOLD" envDefault:"4.5"`
	}

	Gate struct {
		// Distinct listings an anonymous visitor may open before login
		FreeViewLimit int `env:"FREE_VIEW_LIMIT" envDefault:"3"`
	}

	Relay struct {
		// Maximum number of send attempts per notification
		MaxRetries int `env:"RELAY_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"RELAY_RETRY_DELAY" envDefault:"5"`

		// Notifications older than this many days are deleted by the
		// nightly cleanup job
		RetentionDays int `env:"RELAY_RETENTION_DAYS" envDefault:"30"`

		// Buffer size of the in-memory notification queue
		QueueSize int `env:"RELAY_QUEUE_SIZE" envDefault:"100"`
	}

	Telegram struct {
		BotToken  string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID    string `env:"TELEGRAM_CHAT_ID"`
		IsEnabled bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
	}

	FCM struct {
		ServerKey string `env:"FCM_SERVER_KEY"`
		IsEnabled bool   `env:"FCM_ENABLED" envDefault:"false"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
