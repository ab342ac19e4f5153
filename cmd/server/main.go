package main

import (
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/geocode"
	"github.com/tomwhitfield/journeyplanner/internal/handler"
	"github.com/tomwhitfield/journeyplanner/internal/planner"
	"github.com/tomwhitfield/journeyplanner/internal/ratelimit"
	"github.com/tomwhitfield/journeyplanner/internal/resolver"
	"github.com/tomwhitfield/journeyplanner/internal/session"
	"github.com/tomwhitfield/journeyplanner/internal/tfl"
)

type Config struct {
	Port           string
	TflAppKey      string
	TflBaseURL     string
	GeocoderURL    string
	RequestTimeout time.Duration
	SessionBackend string
	SessionTTL     time.Duration
	RedisHost      string
	RedisPort      string
}

func main() {
	_ = godotenv.Load()

	if os.Getenv("LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if os.Getenv("DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	cfg := loadConfig()
	if cfg.TflAppKey == "" {
		// Not fatal: the journey API answers unkeyed requests at a reduced
		// quota, and key problems surface as upstream errors anyway.
		log.Warn().Msg("TFL_APP_KEY is not set")
	}

	limiter := ratelimit.NewHostLimiterWithDefaults()
	// Nominatim's usage policy: at most one request per second.
	if host := hostOf(cfg.GeocoderURL); host != "" {
		limiter.SetHostLimit(host, 1, 1)
	}

	tflClient := tfl.NewClient(cfg.TflBaseURL, cfg.TflAppKey, cfg.RequestTimeout, limiter)
	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.RequestTimeout, limiter)

	locationResolver := resolver.New(tflClient, geocoder)
	journeyPlanner := planner.New(tflClient)

	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		redisStore, err := session.NewRedisStore(session.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.SessionTTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		sessions = redisStore
		log.Info().Str("host", cfg.RedisHost+":"+cfg.RedisPort).Dur("ttl", cfg.SessionTTL).Msg("Redis session store enabled")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.Info().Dur("ttl", cfg.SessionTTL).Msg("In-memory session store enabled")
	}
	defer sessions.Close()

	journeyHandler := handler.NewJourneyHandler(locationResolver, journeyPlanner, sessions)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	api := e.Group("/api/v1")
	api.POST("/journeys/search", journeyHandler.Search)
	api.GET("/journeys", journeyHandler.Sorted)
	api.GET("/locations/suggest", journeyHandler.Suggest)
	api.DELETE("/sessions/:id", journeyHandler.ClearSession)
	e.GET("/health", handler.HealthHandler)

	log.Info().Str("port", cfg.Port).Msg("Starting journey planner server")

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func loadConfig() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		TflAppKey:      getEnv("TFL_APP_KEY", ""),
		TflBaseURL:     getEnv("TFL_BASE_URL", "https://api.tfl.gov.uk"),
		GeocoderURL:    getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
