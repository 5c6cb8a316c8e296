// Package store exports batches into a sqlite (or libsql) database, next to
// the json snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"hfscrape/internal/dataset"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Kind string

const (
	KindRaw   Kind = "raw"
	KindClean Kind = "clean"
)

type Store struct {
	db *sql.DB
}

func driverFor(dsn string) string {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "libsql"
		}
	}
	return "sqlite"
}

// Open opens (and creates the schema of) the database at dsn, remote libsql
// urls use the libsql driver, anything else is a local sqlite path.
func Open(ctx context.Context, dsn string) (Store, error) {
	driver := driverFor(dsn)
	if driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		err := os.MkdirAll(filepath.Dir(dsn), 0755)
		if err != nil {
			return Store{}, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return Store{}, fmt.Errorf("open %s: %w", dsn, err)
	}
	if driver == "sqlite" {
		// sqlite only supports one writer at a time
		db.SetMaxOpenConns(1)
	}
	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("create schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	out, err := json.Marshal(values)
	return string(out), err
}

func decodeList(value string) ([]string, error) {
	out := []string{}
	err := json.Unmarshal([]byte(value), &out)
	return out, err
}

// WriteBatch inserts a batch and all of its records in one transaction.
func (s Store) WriteBatch(ctx context.Context, name string, kind Kind, records []dataset.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		"insert into batch (name, kind, written_at) values (?, ?, ?)",
		name, string(kind), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	batchId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, r := range records {
		lists := make([]string, 4)
		for i, values := range [][]string{r.Modalities, r.Formats, r.Tags, r.Libraries} {
			lists[i], err = encodeList(values)
			if err != nil {
				return err
			}
		}

		var fullName sql.NullString
		if r.FullName != nil {
			fullName = sql.NullString{String: *r.FullName, Valid: true}
		}

		_, err = tx.ExecContext(
			ctx,
			`insert into record (
				batch_id, position, link, full_name, size, description,
				modalities, formats, tags, libraries
			) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batchId, r.Id, r.Link, fullName, r.Size, r.Description,
			lists[0], lists[1], lists[2], lists[3],
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", r.Id, err)
		}
	}

	return tx.Commit()
}

// LatestBatch reads back the most recently written batch of the given name
// and kind, ordered by position.
func (s Store) LatestBatch(ctx context.Context, name string, kind Kind) ([]dataset.Record, error) {
	var batchId int64
	err := s.db.QueryRowContext(
		ctx,
		"select id from batch where name = ? and kind = ? order by id desc limit 1",
		name, string(kind),
	).Scan(&batchId)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`select position, link, full_name, size, description,
			modalities, formats, tags, libraries
		from record where batch_id = ? order by position`,
		batchId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Record
	for rows.Next() {
		var r dataset.Record
		var fullName sql.NullString
		var lists [4]string
		err := rows.Scan(
			&r.Id, &r.Link, &fullName, &r.Size, &r.Description,
			&lists[0], &lists[1], &lists[2], &lists[3],
		)
		if err != nil {
			return nil, err
		}
		if fullName.Valid {
			r.FullName = &fullName.String
		}
		decoded := make([][]string, 4)
		for i, l := range lists {
			decoded[i], err = decodeList(l)
			if err != nil {
				return nil, err
			}
		}
		r.Modalities, r.Formats, r.Tags, r.Libraries = decoded[0], decoded[1], decoded[2], decoded[3]
		out = append(out, r)
	}
	return out, rows.Err()
}
