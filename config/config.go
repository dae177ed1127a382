package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Razorpay RazorpayConfig
	Cart     CartConfig
	Redis    RedisConfig
	Events   EventsConfig
	// PromoCodesFile overrides the built-in promo table when set.
	PromoCodesFile string
}

type ServerConfig struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type MongoConfig struct {
	URI string
	DB  string
}

type AuthConfig struct {
	JWTSecret string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type CartConfig struct {
	Backend  string
	BoltPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EventsConfig struct {
	Broker       string
	NATSURL      string
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadEnv reads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

func Load() (*Config, error) {
	LoadEnv()

	timeout, err := time.ParseDuration(GetEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	redisDB, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           GetEnv("PORT", "8080"),
			GinMode:        GetEnv("GIN_MODE", "release"),
			RequestTimeout: timeout,
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Pretty: GetEnv("LOG_PRETTY", "false") == "true",
		},
		Mongo: MongoConfig{
			URI: GetEnv("MONGO_URI", "mongodb://localhost:27017"),
			DB:  GetEnv("DB_NAME", "fabstore"),
		},
		Auth: AuthConfig{
			JWTSecret: GetEnv("JWT_SECRET", ""),
		},
		Razorpay: RazorpayConfig{
			KeyID:     GetEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: GetEnv("RAZORPAY_KEY_SECRET", ""),
			Currency:  GetEnv("CURRENCY", "INR"),
		},
		Cart: CartConfig{
			Backend:  GetEnv("CART_BACKEND", "bolt"),
			BoltPath: GetEnv("CART_BOLT_PATH", "cart.db"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Events: EventsConfig{
			Broker:       GetEnv("EVENT_BROKER", "none"),
			NATSURL:      GetEnv("NATS_URL", "nats://localhost:4222"),
			KafkaBrokers: splitList(GetEnv("KAFKA_BROKERS", "localhost:9092")),
			KafkaTopic:   GetEnv("KAFKA_TOPIC", "fabstore.events"),
		},
		PromoCodesFile: GetEnv("PROMO_CODES_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Mongo.DB == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	switch c.Cart.Backend {
	case "bolt", "redis":
	default:
		return fmt.Errorf("CART_BACKEND must be bolt or redis, got %q", c.Cart.Backend)
	}
	switch c.Events.Broker {
	case "none", "nats", "kafka":
	default:
		return fmt.Errorf("EVENT_BROKER must be none, nats or kafka, got %q", c.Events.Broker)
	}
	if c.Events.Broker == "kafka" && len(c.Events.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENT_BROKER=kafka")
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
