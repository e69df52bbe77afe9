package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseConfiguration holds the connection parameters for the corpus store.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from environment
// variables, loading a .env file first when one is present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("HOLMES_DB_HOST"),
		Port:     os.Getenv("HOLMES_DB_PORT"),
		Database: os.Getenv("HOLMES_DB_DATABASE"),
		Username: os.Getenv("HOLMES_DB_USERNAME"),
		Password: os.Getenv("HOLMES_DB_PASSWORD"),
		Schema:   os.Getenv("HOLMES_DB_SCHEMA"),
		SSLMode:  os.Getenv("HOLMES_DB_SSLMODE"),
	}
	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, NewError("database configuration", fmt.Errorf("missing required environment variables"))
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	return config, nil
}

// Database wraps the sql connection together with the logger handed to the
// database handlers.
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection with the given configuration. It panics when
// the database is unreachable, matching the behaviour expected of service
// startup.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db, err := openDatabase(config)
	if err != nil {
		logger.Error("could not connect to database", slog.Any("error", err))
		panic(err)
	}
	return &Database{Name: name, Instance: db, Logger: logger}
}

// NewTestDatabase opens a connection for tests with a quiet logger.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	db, err := openDatabase(config)
	if err != nil {
		panic(err)
	}
	return &Database{Name: "test", Instance: db, Logger: logger}
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	if d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}

func openDatabase(config *DatabaseConfiguration) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s search_path=%s sslmode=%s",
		config.Host,
		config.Port,
		config.Database,
		config.Username,
		config.Password,
		config.Schema,
		config.SSLMode,
	)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, NewError("open database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, NewError("ping database", err)
	}
	return db, nil
}

// SetTestDatabaseConfigEnvs points the environment configuration at the test
// container listening on dbPort.
func SetTestDatabaseConfigEnvs(t *testing.T, dbPort string) {
	t.Setenv("HOLMES_DB_HOST", "localhost")
	t.Setenv("HOLMES_DB_PORT", dbPort)
	t.Setenv("HOLMES_DB_DATABASE", "database")
	t.Setenv("HOLMES_DB_USERNAME", "user")
	t.Setenv("HOLMES_DB_PASSWORD", "password")
	t.Setenv("HOLMES_DB_SCHEMA", "public")
	t.Setenv("HOLMES_DB_SSLMODE", "disable")
}

// MustStartPostgresContainer starts a Postgres container with the pgvector
// extension available and returns its teardown function and mapped port.
func MustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("database"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", err
	}

	return container.Terminate, mappedPort.Port(), nil
}
