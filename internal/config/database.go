package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DSN returns the driver-specific data source name.
func (c DatabaseConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	switch c.Driver {
	case "postgres":
		return c.postgresURL(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.Host + ":" + c.Port
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	case "sqlite3":
		if c.Name == "" {
			return "", fmt.Errorf("sqlite3: DB_NAME (file path) is required")
		}
		return "file:" + c.Name + "?_foreign_keys=on", nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

// postgresURL builds a postgres:// URL; credentials are percent-encoded.
func (c DatabaseConfig) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// MigrateURL returns the database URL in the form golang-migrate expects.
func (c DatabaseConfig) MigrateURL() (string, error) {
	switch c.Driver {
	case "postgres":
		if c.URL != "" {
			return c.URL, nil
		}
		return c.postgresURL(), nil
	case "mysql":
		dsn, err := c.DSN()
		if err != nil {
			return "", err
		}
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		mc.MultiStatements = true
		return "mysql://" + mc.FormatDSN(), nil
	case "sqlite3":
		if c.Name == "" {
			return "", fmt.Errorf("sqlite3: DB_NAME (file path) is required")
		}
		return "sqlite3://" + c.Name, nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

// MigrationsDir names the subdirectory of migrations/ for the driver.
func (c DatabaseConfig) MigrationsDir() string {
	if c.Driver == "sqlite3" {
		return "sqlite"
	}
	return c.Driver
}

// ConnectSQL opens the relational store and checks that it answers.
func ConnectSQL(cfg DatabaseConfig) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// ConnectMongo returns nil, nil when no URI is configured; the status log is
// then disabled.
func ConnectMongo(cfg MongoConfig) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
