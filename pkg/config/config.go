package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port     int    `yaml:"port" validate:"gt=0,lte=65535"`
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Database struct {
		URI    string `yaml:"uri" validate:"required"`
		DBName string `yaml:"dbname" validate:"required"`
	} `yaml:"database"`
	Redis struct {
		Host        string `yaml:"host" validate:"required,hostname"`
		Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db" validate:"gte=0"`
		TLSEnabled  bool   `yaml:"tls_enabled"`
		TLSCertFile string `yaml:"tls_cert_file"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" validate:"required"`
	} `yaml:"jwt"`
	Maps      MapsConfig      `yaml:"maps"`
	Listings  ListingsConfig  `yaml:"listings"`
	Map       MapConfig       `yaml:"map"`
	Browse    BrowseConfig    `yaml:"browse"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// MapsConfig configures the upstream Google Maps web services.
type MapsConfig struct {
	APIKey          string `yaml:"api_key"`
	GeocodeURL      string `yaml:"geocode_url" validate:"required,url"`
	AutocompleteURL string `yaml:"autocomplete_url" validate:"required,url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" validate:"gt=0"`
	MaxRetries      int    `yaml:"max_retries" validate:"gte=1,lte=10"`
	CacheTTLHours   int    `yaml:"cache_ttl_hours" validate:"gte=0"`
}

type ListingsConfig struct {
	PriceFloor      float64   `yaml:"price_floor" validate:"gte=0"`
	PriceCeiling    float64   `yaml:"price_ceiling" validate:"gtfield=PriceFloor"`
	DefaultPriceMin float64   `yaml:"default_price_min"`
	DefaultPriceMax float64   `yaml:"default_price_max"`
	NoImageURL      string    `yaml:"no_image_url" validate:"required"`
	CacheTTLMinutes int       `yaml:"cache_ttl_minutes" validate:"gte=0"`
	Fallbacks       Fallbacks `yaml:"fallbacks"`
}

// Fallbacks are the display values used when a record lacks them.
type Fallbacks struct {
	Rating      float64 `yaml:"rating" validate:"gte=0,lte=5"`
	ReviewCount int     `yaml:"review_count" validate:"gte=0"`
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date"`
}

type MapConfig struct {
	MaxZoom       float64 `yaml:"max_zoom" validate:"gt=0,lte=22"`
	DefaultZoom   float64 `yaml:"default_zoom" validate:"gte=0,lte=22"`
	DefaultLat    float64 `yaml:"default_lat" validate:"gte=-90,lte=90"`
	DefaultLng    float64 `yaml:"default_lng" validate:"gte=-180,lte=180"`
	WidthPx       int     `yaml:"width_px" validate:"gt=0"`
	HeightPx      int     `yaml:"height_px" validate:"gt=0"`
	PaddingPx     int     `yaml:"padding_px" validate:"gte=0"`
}

type BrowseConfig struct {
	SessionTTLMinutes   int `yaml:"session_ttl_minutes" validate:"gt=0"`
	AutocompleteQuietMs int `yaml:"autocomplete_quiet_ms" validate:"gte=0"`
	AutocompleteMinLen  int `yaml:"autocomplete_min_length" validate:"gte=1"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gt=0"`
	Burst             int `yaml:"burst" validate:"gt=0"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %v", err)
		}
		cfg.Server.Port = portNum
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Server.LogLevel = level
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.Database.DBName = dbname
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = dbNum
	}
	if tlsEnabled := os.Getenv("REDIS_TLS_ENABLED"); tlsEnabled != "" {
		cfg.Redis.TLSEnabled = tlsEnabled == "true"
	}
	if tlsCertFile := os.Getenv("REDIS_TLS_CERT_FILE"); tlsCertFile != "" {
		cfg.Redis.TLSCertFile = tlsCertFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		cfg.Maps.APIKey = key
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.DB < 0 {
		cfg.Redis.DB = 0
	}

	if cfg.Maps.GeocodeURL == "" {
		cfg.Maps.GeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if cfg.Maps.AutocompleteURL == "" {
		cfg.Maps.AutocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"
	}
	if cfg.Maps.TimeoutSeconds == 0 {
		cfg.Maps.TimeoutSeconds = 10
	}
	if cfg.Maps.MaxRetries == 0 {
		cfg.Maps.MaxRetries = 3
	}
	if cfg.Maps.CacheTTLHours == 0 {
		cfg.Maps.CacheTTLHours = 30 * 24
	}

	if cfg.Listings.PriceFloor == 0 && cfg.Listings.PriceCeiling == 0 {
		cfg.Listings.PriceFloor = 300
		cfg.Listings.PriceCeiling = 3000
	}
	if cfg.Listings.DefaultPriceMin == 0 && cfg.Listings.DefaultPriceMax == 0 {
		cfg.Listings.DefaultPriceMin = 500
		cfg.Listings.DefaultPriceMax = 2000
	}
	if cfg.Listings.NoImageURL == "" {
		cfg.Listings.NoImageURL = "/placeholder.svg"
	}
	if cfg.Listings.CacheTTLMinutes == 0 {
		cfg.Listings.CacheTTLMinutes = 5
	}

	if cfg.Map.MaxZoom == 0 {
		cfg.Map.MaxZoom = 16
	}
	if cfg.Map.DefaultZoom == 0 {
		cfg.Map.DefaultZoom = 12
	}
	if cfg.Map.DefaultLat == 0 && cfg.Map.DefaultLng == 0 {
		cfg.Map.DefaultLat = 37.7749
		cfg.Map.DefaultLng = -122.4194
	}
	if cfg.Map.WidthPx == 0 {
		cfg.Map.WidthPx = 1024
	}
	if cfg.Map.HeightPx == 0 {
		cfg.Map.HeightPx = 640
	}

	if cfg.Browse.SessionTTLMinutes == 0 {
		cfg.Browse.SessionTTLMinutes = 30
	}
	if cfg.Browse.AutocompleteQuietMs == 0 {
		cfg.Browse.AutocompleteQuietMs = 300
	}
	if cfg.Browse.AutocompleteMinLen == 0 {
		cfg.Browse.AutocompleteMinLen = 3
	}

	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
}

// Validate checks struct tags and cross-field rules.
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	if cfg.Listings.DefaultPriceMin > cfg.Listings.DefaultPriceMax {
		return fmt.Errorf("invalid config: default_price_min exceeds default_price_max")
	}
	if cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}
	return nil
}

func (cfg *Config) IsProduction() bool {
	return cfg.Server.Env == "production"
}

func (m MapsConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

func (m MapsConfig) CacheTTL() time.Duration {
	return time.Duration(m.CacheTTLHours) * time.Hour
}

func (l ListingsConfig) CacheTTL() time.Duration {
	return time.Duration(l.CacheTTLMinutes) * time.Minute
}

func (b BrowseConfig) SessionTTL() time.Duration {
	return time.Duration(b.SessionTTLMinutes) * time.Minute
}

func (b BrowseConfig) AutocompleteQuiet() time.Duration {
	return time.Duration(b.AutocompleteQuietMs) * time.Millisecond
}
