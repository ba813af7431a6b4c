package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env                 string `envconfig:"ENV"                   default:"development"`
		LogLevel            string `envconfig:"LOG_LEVEL"             default:"info"`
		LogFormat           string `envconfig:"LOG_FORMAT"            default:"console"`
		Port                string `envconfig:"PORT"                  default:"8000"`
		Host                string `envconfig:"HOST"                  default:"0.0.0.0"`
		ReadTimeoutSeconds  int    `envconfig:"READ_TIMEOUT_SECONDS"  default:"10"`
		WriteTimeoutSeconds int    `envconfig:"WRITE_TIMEOUT_SECONDS" default:"10"`
		IdleTimeoutSeconds  int    `envconfig:"IDLE_TIMEOUT_SECONDS"  default:"60"`
		Shutdown            struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"todo-api"`
		Version  string `envconfig:"VERSION"  default:"0.1.0"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Accept,Content-Type,X-Request-ID"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
			Enable           bool     `envconfig:"ENABLE"          default:"true"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		Driver             string `envconfig:"DRIVER"               default:"redis"`
		TTL                int    `envconfig:"TTL"                  default:"300"`
		ListTTL            int    `envconfig:"LIST_TTL"             default:"60"`
		OperationTimeoutMs int    `envconfig:"OPERATION_TIMEOUT_MS" default:"200"`
		Redis              struct {
			Primary struct {
				Host     string `envconfig:"HOST"      default:"localhost"`
				Port     string `envconfig:"PORT"      default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
				PoolSize int    `envconfig:"POOL_SIZE" default:"10"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		Memory struct {
			Capacity           int `envconfig:"CAPACITY"            default:"10000"`
			NumShards          int `envconfig:"NUM_SHARDS"          default:"64"`
			EvictionPercentage int `envconfig:"EVICTION_PERCENTAGE" default:"10"`
		} `envconfig:"MEMORY"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry               int    `envconfig:"MAX_RETRY"                 default:"5"`
			RetryWaitTime          int    `envconfig:"RETRY_WAIT_TIME"           default:"2"`
			MigrationTable         string `envconfig:"MIGRATION_TABLE"           default:"schema_migrations"`
			MigrationPath          string `envconfig:"MIGRATION_PATH"            default:"file://migrations/postgres"`
			AutoMigrate            bool   `envconfig:"AUTO_MIGRATE"`
			Prefix                 string `envconfig:"PREFIX"`
			MaxOpenConns           int    `envconfig:"MAX_OPEN_CONNS"            default:"10"`
			MaxIdleConns           int    `envconfig:"MAX_IDLE_CONNS"            default:"10"`
			ConnMaxLifetimeSeconds int    `envconfig:"CONN_MAX_LIFETIME_SECONDS" default:"3600"`
			QueryTimeoutSeconds    int    `envconfig:"QUERY_TIMEOUT_SECONDS"     default:"5"`
			Read                   struct {
				Host     string `envconfig:"HOST"     default:"localhost"`
				Port     string `envconfig:"PORT"     default:"5432"`
				Username string `envconfig:"USERNAME" default:"todo_user"`
				Password string `envconfig:"PASSWORD" default:"todo_password"`
				Name     string `envconfig:"NAME"     default:"todo_db"`
				SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"     default:"localhost"`
				Port     string `envconfig:"PORT"     default:"5432"`
				Username string `envconfig:"USERNAME" default:"todo_user"`
				Password string `envconfig:"PASSWORD" default:"todo_password"`
				Name     string `envconfig:"NAME"     default:"todo_db"`
				SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Metrics struct {
		Enable bool   `envconfig:"ENABLE" default:"true"`
		Path   string `envconfig:"ROUTE"  default:"/metrics"`
	} `envconfig:"METRICS"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`
		Topic   string   `envconfig:"TOPIC"   default:"todo.events"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Enable       bool    `envconfig:"ENABLE"`
			Endpoint     string  `envconfig:"ENDPOINT"      default:"localhost:4317"`
			SamplingRate float64 `envconfig:"SAMPLING_RATE" default:"1.0"`
		} `envconfig:"OTEL"`
	} `envconfig:"EXTERNAL"`
}

// CacheOperationTimeout bounds a single call to the cache backend.
func (c *Config) CacheOperationTimeout() time.Duration {
	return time.Duration(c.Cache.OperationTimeoutMs) * time.Millisecond
}

// QueryTimeout bounds a single call to the database.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.DB.Postgres.QueryTimeoutSeconds) * time.Second
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
