package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/colebramer/sqlpulse/internal/plan"
)

// driverNames maps an engine to its registered database/sql driver.
var driverNames = map[string]string{
	plan.EnginePostgres:  "pgx",
	plan.EngineMySQL:     "mysql",
	plan.EngineSQLite:    "sqlite3",
	plan.EngineSQLServer: "sqlserver",
}

const connectTimeout = 10 * time.Second

// ValidEngine reports whether engine names a supported database engine.
func ValidEngine(engine string) bool {
	_, ok := driverNames[engine]
	return ok
}

// Open opens a connection pool for the given engine and verifies it
// with a ping. The caller owns the returned handle and must close it.
func Open(ctx context.Context, engine, dsn string) (*sql.DB, error) {
	driver, ok := driverNames[engine]
	if !ok {
		return nil, fmt.Errorf("unsupported engine %q: must be one of postgres, mysql, sqlite, sqlserver", engine)
	}

	handle, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := handle.PingContext(pingCtx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return handle, nil
}
