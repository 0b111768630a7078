/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// SQLFiles holds the schema migrations, one directory per dialect.
//
//go:embed sql
var SQLFiles embed.FS

const migrationTable = "caixa_migrations"

// SQLBackend stores each collection as one JSON document row in
// caixa_collections.
type SQLBackend struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func NewSQLBackend(db *sql.DB, dialect string) (*SQLBackend, error) {
	switch dialect {
	case "postgres", "sqlite3", "mysql":
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return &SQLBackend{db: db, dialect: dialect, now: time.Now}, nil
}

// ConnectDB opens the database and retries the first ping with exponential
// backoff, so a database container that is still starting is waited for.
func ConnectDB(driver, dns string) (*sql.DB, error) {
	db, err := sql.Open(driver, dns)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 15 * time.Second
	err = backoff.RetryNotify(db.Ping, b, func(err error, next time.Duration) {
		logrus.WithError(err).WithField("driver", driver).Warnf("database not reachable, retrying in %s", next)
	})
	if err != nil {
		logrus.WithError(err).Error("database connection error ❌")
		_ = db.Close()
		return nil, err
	}

	if driver == "sqlite3" {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func migrationSource(dialect string) migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: SQLFiles,
		Root:       "sql/" + dialect,
	}
}

// Migrate applies (or rolls back) the schema for dialect and returns the
// number of migrations run.
func Migrate(db *sql.DB, dialect string, direction migrate.MigrationDirection) (int, error) {
	set := migrate.MigrationSet{TableName: migrationTable}
	return set.Exec(db, dialect, migrationSource(dialect), direction)
}

func (s *SQLBackend) placeholders() (string, string, string) {
	if s.dialect == "postgres" {
		return "$1", "$2", "$3"
	}
	return "?", "?", "?"
}

func (s *SQLBackend) upsertQuery() string {
	p1, p2, p3 := s.placeholders()
	if s.dialect == "mysql" {
		return fmt.Sprintf(`INSERT INTO caixa_collections (name, payload, updated_at) VALUES (%s, %s, %s)
			ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`, p1, p2, p3)
	}
	return fmt.Sprintf(`INSERT INTO caixa_collections (name, payload, updated_at) VALUES (%s, %s, %s)
			ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`, p1, p2, p3)
}

func (s *SQLBackend) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	ctx, span := otel.Tracer("Storage").Start(ctx, "Loading collection from db")
	defer span.End()

	p1, _, _ := s.placeholders()
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM caixa_collections WHERE name = "+p1, collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("collection %s is corrupt: %w", collection, err)
	}
	return records, nil
}

func (s *SQLBackend) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	ctx, span := otel.Tracer("Storage").Start(ctx, "Saving collection to db")
	defer span.End()

	if records == nil {
		records = []json.RawMessage{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.upsertQuery(), collection, string(payload), s.now().UTC())
	return err
}

func (s *SQLBackend) Close() error {
	return s.db.Close()
}
