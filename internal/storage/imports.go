/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "playparse/internal/log"
	"playparse/internal/script"
)

// Import summarizes one ImportRecords run.
type Import struct {
	ID        string
	Source    string
	Rows      int
	CreatedAt time.Time
}

// ImportRecords replaces every line previously imported from source with
// records, in a single transaction. Records keep their order as seq 0..n-1.
func ImportRecords(ctx context.Context, db *sql.DB, source string, records []script.Record) (Import, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Import{}, errors.New("import source is required")
	}
	imp := Import{
		ID:        uuid.NewString(),
		Source:    source,
		Rows:      len(records),
		CreatedAt: time.Now().UTC(),
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "import").With(
		slog.String("source", source),
		slog.String("import_id", imp.ID),
	)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE source=?`, source); err != nil {
		return Import{}, fmt.Errorf("clear lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE source=?`, source); err != nil {
		return Import{}, fmt.Errorf("clear imports: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO imports(id, source, rows, created_at) VALUES(?,?,?,?)`,
		imp.ID, imp.Source, imp.Rows, imp.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		return Import{}, fmt.Errorf("insert import: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO lines(import_id, source, seq, act, scene, player, text, line) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return Import{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for i, r := range records {
		if _, err := ins.ExecContext(ctx, imp.ID, source, i, r.Act, r.Scene, r.Player, r.Text, r.Line); err != nil {
			return Import{}, fmt.Errorf("insert line %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("commit: %w", err)
	}
	l.Info("records imported", slog.Int("rows", imp.Rows))
	return imp, nil
}

// Imports lists the current import of every source, ordered by source.
func Imports(ctx context.Context, db *sql.DB) ([]Import, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, source, rows, created_at FROM imports ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		var imp Import
		var ts string
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.Rows, &ts); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, imp)
	}
	return out, rows.Err()
}
