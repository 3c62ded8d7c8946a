/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"playparse/internal/script"
)

// Query describes a line search.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Player matches case-insensitively; Act, Scene and Source match exactly.
// Empty filters are ignored. Limit defaults to 100.
type Query struct {
	Text   string
	Player string
	Act    string
	Scene  string
	Source string
	Limit  int
	Offset int
}

// Hit is a single matching line. Snippet marks matched terms with [ ] when
// Text was used and is empty otherwise.
type Hit struct {
	Source  string
	Seq     int
	Act     string
	Scene   string
	Player  string
	Text    string
	Line    int
	Snippet string
}

// Search runs q against the index, ordered by source then sequence.
// When q.Text is empty, it falls back to a filtered scan of lines.
func Search(ctx context.Context, db *sql.DB, q Query) ([]Hit, error) {
	var args []any
	var sb strings.Builder
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString("SELECT l.source, l.seq, l.act, l.scene, l.player, l.text, l.line, snippet(fts_lines, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_lines JOIN lines l ON fts_lines.rowid = l.id\n")
		sb.WriteString("WHERE fts_lines MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT l.source, l.seq, l.act, l.scene, l.player, l.text, l.line, ''\n")
		sb.WriteString("FROM lines l\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.Player); s != "" {
		sb.WriteString(" AND l.player = ? COLLATE NOCASE\n")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Act); s != "" {
		sb.WriteString(" AND l.act = ?\n")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Scene); s != "" {
		sb.WriteString(" AND l.scene = ?\n")
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Source); s != "" {
		sb.WriteString(" AND l.source = ?\n")
		args = append(args, s)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	sb.WriteString("ORDER BY l.source, l.seq\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []Hit
	for rows.Next() {
		var h Hit
		var sn sql.NullString
		if err := rows.Scan(&h.Source, &h.Seq, &h.Act, &h.Scene, &h.Player, &h.Text, &h.Line, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		h.Snippet = sn.String
		out = append(out, h)
	}
	return out, rows.Err()
}

// Players returns the distinct speaking characters of source (all sources
// when empty), excluding stage directions, in order of first line.
func Players(ctx context.Context, db *sql.DB, source string) ([]string, error) {
	q := `SELECT player FROM lines WHERE player <> ?`
	args := []any{script.StageDirection}
	if s := strings.TrimSpace(source); s != "" {
		q += ` AND source = ?`
		args = append(args, s)
	}
	q += ` GROUP BY player ORDER BY MIN(source), MIN(seq)`
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("players query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
