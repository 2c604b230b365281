package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const connectTimeout = 10 * time.Second

// sqlitePragmas are appended to SQLite connection strings that do not set
// them already.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// Init opens and pings the content store. driver is a database/sql driver
// name: "sqlite" (modernc) or "pgx".
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		path, _, _ := strings.Cut(connection, "?")
		err := os.MkdirAll(filepath.Dir(strings.TrimPrefix(path, "file:")), 0o755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		connection = withPragmas(connection)
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// One writer at a time: a single connection serializes record
		// writes instead of surfacing SQLITE_BUSY to requests.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func withPragmas(connection string) string {
	var extra []string
	for _, pragma := range sqlitePragmas {
		name, _, _ := strings.Cut(pragma, "(")
		if !strings.Contains(connection, name) {
			extra = append(extra, "_pragma="+pragma)
		}
	}
	if len(extra) == 0 {
		return connection
	}

	sep := "?"
	if strings.Contains(connection, "?") {
		sep = "&"
	}
	return connection + sep + strings.Join(extra, "&")
}
