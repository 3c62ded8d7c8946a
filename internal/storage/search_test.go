/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	db, _ := openTestIndex(t)
	ctx := context.Background()
	if _, err := ImportRecords(ctx, db, "dream.md", sample); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := ImportRecords(ctx, db, "another.md", sample[1:2]); err != nil {
		t.Fatalf("import: %v", err)
	}

	// 1) FTS match with snippet markers
	res, err := Search(ctx, db, Query{Text: "thorough"})
	if err != nil {
		t.Fatalf("search text: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 hit for 'thorough', got %d", len(res))
	}
	h := res[0]
	if h.Player != "FAIRY" || h.Seq != 3 || h.Line != 8 || h.Act != "II" || h.Scene != "I" {
		t.Fatalf("unexpected hit: %+v", h)
	}
	if !strings.Contains(h.Snippet, "[Thorough]") {
		t.Fatalf("snippet lacks highlight: %q", h.Snippet)
	}

	// 2) Text plus player filter (case-insensitive)
	res, err = Search(ctx, db, Query{Text: "wander", Player: "puck"})
	if err != nil {
		t.Fatalf("search player: %v", err)
	}
	if len(res) != 2 || res[0].Source != "another.md" || res[1].Source != "dream.md" {
		t.Fatalf("expected PUCK hit in both sources ordered by source, got %+v", res)
	}

	// 3) Filtered scan without text
	res, err = Search(ctx, db, Query{Source: "dream.md", Act: "II", Scene: "I"})
	if err != nil {
		t.Fatalf("search scan: %v", err)
	}
	if len(res) != 4 {
		t.Fatalf("expected 4 lines in II.I, got %d", len(res))
	}
	for i, h := range res {
		if h.Seq != i || h.Snippet != "" {
			t.Fatalf("hit %d out of order or with snippet: %+v", i, h)
		}
	}

	// 4) Pagination
	res, err = Search(ctx, db, Query{Source: "dream.md", Limit: 2, Offset: 3})
	if err != nil {
		t.Fatalf("search page: %v", err)
	}
	if len(res) != 2 || res[0].Seq != 3 || res[1].Seq != 4 {
		t.Fatalf("unexpected page: %+v", res)
	}

	// 5) No match
	res, err = Search(ctx, db, Query{Text: "Titania"})
	if err != nil {
		t.Fatalf("search none: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no hits, got %d", len(res))
	}
}

func TestSearchAfterReimportDropsOldText(t *testing.T) {
	db, _ := openTestIndex(t)
	ctx := context.Background()
	if _, err := ImportRecords(ctx, db, "dream.md", sample); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := ImportRecords(ctx, db, "dream.md", sample[:2]); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	res, err := Search(ctx, db, Query{Text: "oberon OR seest"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("stale FTS rows survived re-import: %+v", res)
	}
}

func TestSearchBadSyntax(t *testing.T) {
	db, _ := openTestIndex(t)
	if _, err := Search(context.Background(), db, Query{Text: `"unterminated`}); err == nil {
		t.Fatalf("expected FTS syntax error")
	}
}

func TestPlayers(t *testing.T) {
	db, _ := openTestIndex(t)
	ctx := context.Background()
	if _, err := ImportRecords(ctx, db, "dream.md", sample); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := Players(ctx, db, "dream.md")
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if want := []string{"PUCK", "FAIRY", "OBERON"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Players = %v, want %v", got, want)
	}
}
