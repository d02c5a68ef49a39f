package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	PayPal   PayPalConfig   `mapstructure:"paypal"`
	Orders   OrdersConfig   `mapstructure:"orders"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	StaticDir    string        `mapstructure:"static_dir"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type SessionConfig struct {
	Secret    string        `mapstructure:"secret"`
	MaxAge    time.Duration `mapstructure:"max_age"`
	UpdateAge time.Duration `mapstructure:"update_age"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CartTTL  time.Duration `mapstructure:"cart_ttl"`
}

type RabbitMQConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

type PayPalConfig struct {
	ClientID string `mapstructure:"client_id"`
	Secret   string `mapstructure:"secret"`
	Mode     string `mapstructure:"mode"`
}

// Enabled reports whether credentials for the payment provider are present.
func (p PayPalConfig) Enabled() bool {
	return p.ClientID != "" && p.Secret != ""
}

type OrdersConfig struct {
	TaxRate           float64 `mapstructure:"tax_rate"`
	OptimisticPayment bool    `mapstructure:"optimistic_payment"`
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// legacyEnv maps the unprefixed variable names used by older deployments.
var legacyEnv = map[string][]string{
	"app.env":          {"APP_ENV"},
	"mongo.uri":        {"MONGODB_URI", "MONGO_PUBLIC_URL", "MONGO_URL"},
	"mongo.database":   {"MONGODB_DB"},
	"session.secret":   {"SESSION_SECRET"},
	"paypal.client_id": {"PAYPAL_CLIENT_ID"},
	"paypal.secret":    {"PAYPAL_SECRET"},
}

// setDefaults registers every key. Unmarshal only sees keys viper already
// knows, so an environment override of a key without a default is dropped.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", EnvDevelopment)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "")
	v.SetDefault("mongo.max_pool_size", 10)
	v.SetDefault("mongo.min_pool_size", 1)
	v.SetDefault("mongo.connect_timeout", 10*time.Second)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age", 12*time.Hour)
	v.SetDefault("session.update_age", time.Hour)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cart_ttl", 15*time.Minute)

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "order.failed")

	v.SetDefault("paypal.client_id", "")
	v.SetDefault("paypal.secret", "")
	v.SetDefault("paypal.mode", "sandbox")

	v.SetDefault("orders.tax_rate", 0.08)
	v.SetDefault("orders.optimistic_payment", false)
}

// LoadConfig loads configuration from .env files, config.yaml and environment variables.
func LoadConfig() (*Config, error) {
	// Missing dotenv files are fine, real deployments set the environment directly.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("/etc/dishtalgia/")

	v.SetEnvPrefix("DISHTALGIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		input := append([]string{key, "DISHTALGIA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(input...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the required settings are present for the current environment.
func (c *Config) Validate() error {
	if c.App.Env == EnvTest {
		return nil
	}

	var missing []string
	if c.Mongo.URI == "" {
		missing = append(missing, "mongo.uri")
	}
	if c.Mongo.Database == "" {
		missing = append(missing, "mongo.database")
	}
	if c.Session.Secret == "" {
		missing = append(missing, "session.secret")
	}
	if c.IsProduction() && len(c.Server.CORSOrigins) == 0 {
		missing = append(missing, "server.cors_origins")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if len(c.Session.Secret) < 32 {
		slog.Warn("session secret is shorter than 32 bytes, set a strong secret")
	}
	if c.Orders.TaxRate < 0 {
		return fmt.Errorf("orders.tax_rate must not be negative, got %v", c.Orders.TaxRate)
	}

	return nil
}
