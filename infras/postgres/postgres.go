package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
	"todoapp/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

var ErrConnectionFailed = errors.New("failed connecting to database")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools. The returned cleanup closes both.
func New(config *config.Config) (*Connection, func(), error) {
	write, err := CreatePostgresWriteConn(*config)
	if err != nil {
		return nil, nil, err
	}

	read, err := CreatePostgresReadConn(*config)
	if err != nil {
		_ = write.Close()

		return nil, nil, err
	}

	conn := &Connection{
		Read:  read,
		Write: write,
	}

	return conn, conn.Close, nil
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	if c.Read != c.Write {
		if err := c.Read.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping read database: %w", err)
		}
	}

	return nil
}

func (c *Connection) Close() {
	if err := c.Write.Close(); err != nil {
		log.Error().Err(err).Str("name", "write").Msg("Failed to close database pool")
	}

	if c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			log.Error().Err(err).Str("name", "read").Msg("Failed to close database pool")
		}
	}

	log.Info().Msg("Database pools closed")
}

// DBName returns the database name with prefix if configured
func DBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// DSN builds a postgres URL with escaped credentials.
func DSN(username, password, host, port, dbName, sslMode string) string {
	descriptor := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}

	return descriptor.String()
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"write",
		DSN(
			config.DB.Postgres.Write.Username,
			config.DB.Postgres.Write.Password,
			config.DB.Postgres.Write.Host,
			config.DB.Postgres.Write.Port,
			DBName(config, config.DB.Postgres.Write.Name),
			config.DB.Postgres.Write.SSLMode,
		),
		config,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"read",
		DSN(
			config.DB.Postgres.Read.Username,
			config.DB.Postgres.Read.Password,
			config.DB.Postgres.Read.Host,
			config.DB.Postgres.Read.Port,
			DBName(config, config.DB.Postgres.Read.Name),
			config.DB.Postgres.Read.SSLMode,
		),
		config,
	)
}

// CreatePostgresConnection creates a database connection, retrying up to DB_POSTGRES_MAX_RETRY times.
func CreatePostgresConnection(name, descriptor string, config config.Config) (*sqlx.DB, error) {
	pg := config.DB.Postgres

	var lastErr error

	for retry := range max(pg.MaxRetry, 1) {
		sqlDB, err := sqlx.Connect(driverName, descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(pg.MaxIdleConns)
			sqlDB.SetMaxOpenConns(pg.MaxOpenConns)
			sqlDB.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeSeconds) * time.Second)

			return sqlDB, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	return nil, fmt.Errorf("%w (%s): %w", ErrConnectionFailed, name, lastErr)
}
