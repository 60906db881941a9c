package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STORE_CONFIG_FILE"

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type CatalogConfig struct {
	URL     string
	Timeout time.Duration
}

type AuthConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the backend for client-local durable storage
type StorageConfig struct {
	Driver    string // memory, redis or postgres
	KeyPrefix string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CheckoutConfig struct {
	WhatsAppNumber string
	StoreName      string
	CurrencySymbol string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// Load reads configuration from defaults, an optional config file, .env and the environment
func Load() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := configFilePath(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Warning: Could not read config file: %v", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:     v.GetString("SERVER_PORT"),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Catalog: CatalogConfig{
			URL:     v.GetString("CATALOG_URL"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
		Auth: AuthConfig{
			BaseURL: strings.TrimRight(v.GetString("AUTH_BASE_URL"), "/"),
			Timeout: v.GetDuration("AUTH_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(v.GetString("STORAGE_DRIVER")),
			KeyPrefix: v.GetString("STORAGE_KEY_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Checkout: CheckoutConfig{
			WhatsAppNumber: v.GetString("CHECKOUT_WHATSAPP_NUMBER"),
			StoreName:      v.GetString("CHECKOUT_STORE_NAME"),
			CurrencySymbol: v.GetString("CHECKOUT_CURRENCY_SYMBOL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_URL", "https://darulattarecombackend.netlify.app/products")
	v.SetDefault("CATALOG_TIMEOUT", 15*time.Second)
	v.SetDefault("AUTH_BASE_URL", "https://ecommerce-backend-puce.vercel.app/api/auth")
	v.SetDefault("AUTH_TIMEOUT", 10*time.Second)
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("STORAGE_KEY_PREFIX", "attar")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CHECKOUT_WHATSAPP_NUMBER", "919578994377")
	v.SetDefault("CHECKOUT_STORE_NAME", "Darul Attar")
	v.SetDefault("CHECKOUT_CURRENCY_SYMBOL", "₹")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

// configFilePath resolves the optional config file from the environment or --config
func configFilePath(args []string) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}

	flags := pflag.NewFlagSet("attar-store", pflag.ContinueOnError)
	path := flags.String("config", "", "config file (yaml or env)")
	if err := flags.Parse(args); err != nil {
		log.Printf("Warning: Could not parse flags: %v", err)
	}
	return *path
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
