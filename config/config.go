package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"gymintel-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"60"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	TracingProtocol string `env:"TRACING_PROTOCOL" env-default:"grpc"`

	// PostgreSQL
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"gymintel"`
	DatabaseSSLMode             string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0"`

	// Redis (search result cache)
	RedisEnabled          bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost             string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort             int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword         string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB               int    `env:"REDIS_DB" env-default:"0"`
	SearchCacheTTLMinutes int    `env:"SEARCH_CACHE_TTL_MINUTES" env-default:"15"`

	// Directory providers
	YelpAPIKey             string `env:"YELP_API_KEY" env-default:""`
	GooglePlacesAPIKey     string `env:"GOOGLE_PLACES_API_KEY" env-default:""`
	ProviderTimeoutSeconds int    `env:"PROVIDER_TIMEOUT_SECONDS" env-default:"30"`
	EnableEnrichment       bool   `env:"ENABLE_ENRICHMENT" env-default:"true"`

	// Geocoding
	NominatimBaseURL   string `env:"NOMINATIM_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string `env:"NOMINATIM_USER_AGENT" env-default:"gymintel-api"`

	// Matching
	MatchThreshold    float64 `env:"MATCH_THRESHOLD" env-default:"0.35"`
	MatchStrategy     string  `env:"MATCH_STRATEGY" env-default:"greedy"`
	EnablePhoneSuffix bool    `env:"ENABLE_PHONE_SUFFIX" env-default:"false"`

	// Search
	DefaultRadiusMiles float64 `env:"DEFAULT_RADIUS_MILES" env-default:"5"`
	MaxRadiusMiles     float64 `env:"MAX_RADIUS_MILES" env-default:"25"`
	MetroConcurrency   int     `env:"METRO_CONCURRENCY" env-default:"5"`

	// Kafka Producer settings
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"gym-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`
}

// Load reads configuration from the environment, applying .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
