package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

type Auth struct {
	JWTSecret              string
	RefreshSecret          string
	AccessTTL              time.Duration
	RefreshTTL             time.Duration
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// UserDB points at the relational database holding accounts.
// Driver is "mysql" or "sqlite".
type UserDB struct {
	Driver string
	DSN    string
}

// Store selects the document store. Driver is "firestore" or "memory".
type Store struct {
	Driver          string
	ProjectID       string
	CredentialsFile string
}

type Redis struct {
	Addr       string
	Password   string
	DB         int
	WeatherTTL time.Duration
}

type Weather struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Units   string
}

type Routing struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Profile string
	Timeout time.Duration
}

type YouTube struct {
	Enabled    bool
	APIKey     string
	BaseURL    string
	MaxResults int
}

type News struct {
	Enabled  bool
	APIKey   string
	BaseURL  string
	Query    string
	PageSize int
	CacheTTL time.Duration
}

type Push struct {
	Enabled bool
	Topic   string
}

type Scheduler struct {
	AlertSyncCron string
	NewsWarmCron  string
}

type Occupancy struct {
	SafeThresholdPercent float64
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	Server    Server
	Auth      Auth
	UserDB    UserDB
	Store     Store
	Redis     Redis
	Weather   Weather
	Routing   Routing
	YouTube   YouTube
	News      News
	Push      Push
	Scheduler Scheduler
	Occupancy Occupancy
	Log       Log
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() *Config {
	return &Config{
		Server: Server{
			Port:        getenv("PORT", "8080"),
			GinMode:     getenv("GIN_MODE", "release"),
			CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
		},
		Auth: Auth{
			JWTSecret:              os.Getenv("JWT_SECRET_KEY"),
			RefreshSecret:          os.Getenv("JWT_REFRESH_SECRET_KEY"),
			AccessTTL:              getDuration("JWT_ACCESS_TTL", 30*time.Minute),
			RefreshTTL:             getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			BootstrapAdminEmail:    os.Getenv("ADMIN_EMAIL"),
			BootstrapAdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		UserDB: UserDB{
			Driver: strings.ToLower(getenv("USER_DB_DRIVER", "mysql")),
			DSN:    os.Getenv("USER_DB_DSN"),
		},
		Store: Store{
			Driver:          strings.ToLower(getenv("STORE_DRIVER", "firestore")),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},
		Redis: Redis{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         getInt("REDIS_DB", 0),
			WeatherTTL: getDuration("WEATHER_CACHE_TTL", 10*time.Minute),
		},
		Weather: Weather{
			Enabled: getBool("WEATHER_ENABLED", false),
			APIKey:  os.Getenv("WEATHER_API_KEY"),
			BaseURL: getenv("WEATHER_BASE_URL", "https://api.openweathermap.org"),
			Units:   getenv("WEATHER_UNITS", "metric"),
		},
		Routing: Routing{
			Enabled: getBool("ROUTING_ENABLED", false),
			APIKey:  os.Getenv("ORS_API_KEY"),
			BaseURL: getenv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			Profile: getenv("ORS_PROFILE", "driving-car"),
			Timeout: getDuration("ORS_TIMEOUT", 15*time.Second),
		},
		YouTube: YouTube{
			Enabled:    getBool("YOUTUBE_ENABLED", false),
			APIKey:     os.Getenv("YOUTUBE_API_KEY"),
			BaseURL:    getenv("YOUTUBE_BASE_URL", "https://www.googleapis.com"),
			MaxResults: getInt("YOUTUBE_MAX_RESULTS", 5),
		},
		News: News{
			Enabled:  getBool("NEWS_ENABLED", false),
			APIKey:   os.Getenv("NEWS_API_KEY"),
			BaseURL:  getenv("NEWS_BASE_URL", "https://newsapi.org"),
			Query:    getenv("NEWS_QUERY", "climate OR flood OR drought OR wildfire OR heatwave"),
			PageSize: getInt("NEWS_PAGE_SIZE", 50),
			CacheTTL: getDuration("NEWS_CACHE_TTL", 6*time.Hour),
		},
		Push: Push{
			Enabled: getBool("PUSH_ENABLED", false),
			Topic:   getenv("PUSH_TOPIC", "alerts"),
		},
		Scheduler: Scheduler{
			AlertSyncCron: os.Getenv("ALERT_SYNC_CRON"),
			NewsWarmCron:  os.Getenv("NEWS_WARM_CRON"),
		},
		Occupancy: Occupancy{
			SafeThresholdPercent: getFloat("OCCUPANCY_SAFE_THRESHOLD", 90),
		},
		Log: Log{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects configurations the server cannot start with and fills
// in derived defaults.
func (c *Config) Validate() error {
	var problems []string

	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET_KEY is required")
	}
	if c.Auth.RefreshSecret == "" {
		c.Auth.RefreshSecret = c.Auth.JWTSecret
	}
	switch c.UserDB.Driver {
	case "mysql":
		if c.UserDB.DSN == "" {
			problems = append(problems, "USER_DB_DSN is required for mysql")
		}
	case "sqlite":
		if c.UserDB.DSN == "" {
			c.UserDB.DSN = "disasterprep.db"
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown USER_DB_DRIVER %q", c.UserDB.Driver))
	}
	switch c.Store.Driver {
	case "firestore":
		if c.Store.ProjectID == "" && c.Store.CredentialsFile == "" {
			problems = append(problems, "FIREBASE_PROJECT_ID or GOOGLE_APPLICATION_CREDENTIALS is required for firestore")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if c.Weather.Enabled && c.Weather.APIKey == "" {
		problems = append(problems, "WEATHER_API_KEY is required when WEATHER_ENABLED")
	}
	if c.Routing.Enabled && c.Routing.APIKey == "" {
		problems = append(problems, "ORS_API_KEY is required when ROUTING_ENABLED")
	}
	if c.YouTube.Enabled && c.YouTube.APIKey == "" {
		problems = append(problems, "YOUTUBE_API_KEY is required when YOUTUBE_ENABLED")
	}
	if c.News.Enabled && c.News.APIKey == "" {
		problems = append(problems, "NEWS_API_KEY is required when NEWS_ENABLED")
	}
	if c.Push.Enabled && c.Store.Driver != "firestore" {
		problems = append(problems, "PUSH_ENABLED requires the firestore store driver")
	}
	if c.Occupancy.SafeThresholdPercent <= 0 {
		problems = append(problems, "OCCUPANCY_SAFE_THRESHOLD must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
