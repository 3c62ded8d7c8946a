/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package convert runs a complete conversion: read the transcript, classify
// its lines, and write the CSV table plus any requested derived outputs.
// Only two things can fail here, reading the input and writing an output;
// both are reported as *Error.
package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"playparse/internal/cast"
	"playparse/internal/export"
	applog "playparse/internal/log"
	"playparse/internal/script"
	"playparse/internal/storage"
)

// StdoutPath as Output writes the CSV table to Options.Stdout.
const StdoutPath = "-"

// Options describes one run. Empty PDF, Cast and Index paths skip those outputs.
type Options struct {
	Input  string
	Output string
	CSV    export.CSVOptions
	PDF    string
	Cast   string
	Index  string
	// Stdout receives the table when Output is "-"; nil means os.Stdout.
	Stdout io.Writer
}

// Result summarizes a successful run.
type Result struct {
	Input    string
	Output   string
	Rows     int
	Stats    script.Stats
	ImportID string // set when an index was updated
}

// ReadInput reads the whole transcript as UTF-8 text. A byte order mark is
// honored and stripped; invalid UTF-8 sequences become U+FFFD.
func ReadInput(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", inputErr(path, err)
	}
	defer f.Close()
	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	b, err := io.ReadAll(r)
	if err != nil {
		return "", inputErr(path, err)
	}
	return string(b), nil
}

// Records reads and parses the transcript at path.
func Records(path string) ([]script.Record, script.Stats, error) {
	text, err := ReadInput(path)
	if err != nil {
		return nil, script.Stats{}, err
	}
	lines := script.SplitLines(text)
	return script.Parse(lines), script.Summarize(lines), nil
}

// Run performs the conversion described by opt.
func Run(ctx context.Context, opt Options) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("convert"), "run").With(slog.String("input", opt.Input))
	res := Result{Input: opt.Input, Output: opt.Output}
	if strings.TrimSpace(opt.Input) == "" {
		return res, inputErr(opt.Input, errors.New("input path is required"))
	}
	if strings.TrimSpace(opt.Output) == "" {
		return res, outputErr(opt.Output, errors.New("output path is required"))
	}

	recs, stats, err := Records(opt.Input)
	if err != nil {
		l.Error("read input failed", slog.Any("err", err))
		return res, err
	}
	res.Rows, res.Stats = len(recs), stats
	l.Debug("classified",
		slog.Int("lines", stats.Lines),
		slog.Int("blank", stats.Blank),
		slog.Int("acts", stats.ByKind[script.KindActHeading]),
		slog.Int("scenes", stats.ByKind[script.KindSceneHeading]),
		slog.Int("cues", stats.ByKind[script.KindCharacterCue]),
		slog.Int("unrecognized", stats.ByKind[script.KindUnrecognized]),
		slog.Int("dropped_dialogue", stats.Dropped),
	)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if opt.Output == StdoutPath {
		w := opt.Stdout
		if w == nil {
			w = os.Stdout
		}
		if err := export.WriteCSV(w, recs, opt.CSV); err != nil {
			return res, outputErr(opt.Output, err)
		}
	} else if err := export.WriteCSVFile(opt.Output, recs, opt.CSV); err != nil {
		l.Error("write csv failed", slog.String("output", opt.Output), slog.Any("err", err))
		return res, outputErr(opt.Output, err)
	}
	l.Info("csv written", slog.String("output", opt.Output), slog.Int("rows", res.Rows))

	if opt.PDF != "" {
		title := strings.TrimSuffix(filepath.Base(opt.Input), filepath.Ext(opt.Input))
		if err := export.WritePDF(opt.PDF, recs, export.PDFOptions{Title: strings.ReplaceAll(title, "_", " ")}); err != nil {
			l.Error("write pdf failed", slog.String("pdf", opt.PDF), slog.Any("err", err))
			return res, outputErr(opt.PDF, err)
		}
		l.Info("pdf written", slog.String("pdf", opt.PDF))
	}

	if opt.Cast != "" {
		c := cast.Build(recs)
		if err := cast.WriteJSON(opt.Cast, c); err != nil {
			l.Error("write cast failed", slog.String("cast", opt.Cast), slog.Any("err", err))
			return res, outputErr(opt.Cast, err)
		}
		l.Info("cast written", slog.String("cast", opt.Cast), slog.Int("characters", len(c.Characters)), slog.Int("links", len(c.Links)))
	}

	if opt.Index != "" {
		id, err := updateIndex(ctx, opt.Index, opt.Input, recs)
		if err != nil {
			l.Error("update index failed", slog.String("index", opt.Index), slog.Any("err", err))
			return res, outputErr(opt.Index, err)
		}
		res.ImportID = id
	}
	return res, nil
}

func updateIndex(ctx context.Context, path, source string, recs []script.Record) (string, error) {
	db, err := storage.OpenIndex(ctx, path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	imp, err := storage.ImportRecords(ctx, db, SourceName(source), recs)
	if err != nil {
		return "", err
	}
	if err := storage.SetMeta(ctx, db, storage.InputMetaKey(imp.Source), source); err != nil {
		return "", err
	}
	return imp.ID, nil
}

// SourceName is the index source key for an input path: its base name.
func SourceName(input string) string {
	return filepath.Base(input)
}
