/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"playparse/internal/cast"
	"playparse/internal/config"
	"playparse/internal/convert"
	"playparse/internal/export"
	applog "playparse/internal/log"
	"playparse/internal/storage"
)

// parseFlags parses args into flags. A non-nil code means the command is done.
func parseFlags(flags *flag.FlagSet, args []string, stderr io.Writer) *int {
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		code := exitUsage
		if errors.Is(err, flag.ErrHelp) {
			code = exitOK
		}
		return &code
	}
	return nil
}

// visited reports which flags were set explicitly on the command line.
func visited(flags *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// setup loads the configuration and initializes logging from it.
func setup(configPath string, stderr io.Writer) (config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   stderr,
	})
	return cfg, nil
}

// fail reports err on stderr and returns the failure exit code.
func fail(stderr io.Writer, err error) int {
	var ce *convert.Error
	if errors.As(err, &ce) {
		switch {
		case ce.Kind == convert.KindInputUnavailable && errors.Is(err, fs.ErrNotExist):
			_, _ = fmt.Fprintf(stderr, "Error: Input file '%s' not found.\n", ce.Path)
			_, _ = fmt.Fprintln(stderr, "Please ensure the file exists in the current directory.")
			return exitFailure
		case ce.Kind == convert.KindInputUnavailable:
			_, _ = fmt.Fprintf(stderr, "Error: Unable to read file '%s': %v\n", ce.Path, ce.Err)
			return exitFailure
		case ce.Kind == convert.KindOutputUnwritable:
			_, _ = fmt.Fprintf(stderr, "Error: Unable to write to file '%s': %v\n", ce.Path, ce.Err)
			return exitFailure
		}
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}

func usageErr(stderr io.Writer, flags *flag.FlagSet, msg string) int {
	_, _ = fmt.Fprintf(stderr, "Error: %s\n", msg)
	flags.Usage()
	return exitUsage
}

func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("convert", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file (default $PLAYPARSE_CONFIG or ./playparse.yaml)")
	in := flags.String("in", "", "input transcript")
	out := flags.String("out", "", "output CSV file, - for stdout")
	pdf := flags.String("pdf", "", "also write a reading-script PDF")
	castOut := flags.String("cast", "", "also write the cast summary JSON")
	index := flags.String("index", "", "also import the records into this line index")
	lf := flags.Bool("lf", false, "end CSV rows with \\n instead of \\r\\n")
	if code := parseFlags(flags, args, stderr); code != nil {
		return *code
	}
	if flags.NArg() > 0 {
		return usageErr(stderr, flags, "unexpected arguments: "+strings.Join(flags.Args(), " "))
	}

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer applog.Close()
	set := visited(flags)
	if set["in"] {
		cfg.Input = *in
	}
	if set["out"] {
		cfg.Output = *out
	}
	if set["pdf"] {
		cfg.PDF = *pdf
	}
	if set["cast"] {
		cfg.Cast = *castOut
	}
	if set["index"] {
		cfg.Index = *index
	}
	if set["lf"] {
		cfg.CRLF = !*lf
	}

	applog.WithComponent("cli").Debug("convert", slog.String("input", cfg.Input), slog.String("output", cfg.Output))
	res, err := convert.Run(ctx, convert.Options{
		Input:  cfg.Input,
		Output: cfg.Output,
		CSV:    export.CSVOptions{CRLF: cfg.CRLF},
		PDF:    cfg.PDF,
		Cast:   cfg.Cast,
		Index:  cfg.Index,
		Stdout: stdout,
	})
	if err != nil {
		return fail(stderr, err)
	}

	// keep stdout clean when it carries the table
	msgs := stdout
	if cfg.Output == convert.StdoutPath {
		msgs = stderr
	}
	_, _ = fmt.Fprintf(msgs, "Processed %d entries from %s\n", res.Rows, res.Input)
	_, _ = fmt.Fprintf(msgs, "Output written to %s\n", res.Output)
	if cfg.PDF != "" {
		_, _ = fmt.Fprintf(msgs, "Reading script written to %s\n", cfg.PDF)
	}
	if cfg.Cast != "" {
		_, _ = fmt.Fprintf(msgs, "Cast written to %s\n", cfg.Cast)
	}
	if res.ImportID != "" {
		_, _ = fmt.Fprintf(msgs, "Index %s updated (import %s)\n", cfg.Index, res.ImportID)
	}
	return exitOK
}

func runCast(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cast", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file")
	in := flags.String("in", "", "input transcript")
	out := flags.String("out", convert.StdoutPath, "output JSON file, - for stdout")
	if code := parseFlags(flags, args, stderr); code != nil {
		return *code
	}
	if flags.NArg() > 0 {
		return usageErr(stderr, flags, "unexpected arguments: "+strings.Join(flags.Args(), " "))
	}
	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer applog.Close()
	if visited(flags)["in"] {
		cfg.Input = *in
	}

	recs, _, err := convert.Records(cfg.Input)
	if err != nil {
		return fail(stderr, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(stderr, err)
	}
	c := cast.Build(recs)
	if *out == convert.StdoutPath {
		if err := cast.Encode(stdout, c); err != nil {
			return fail(stderr, err)
		}
		return exitOK
	}
	if err := cast.WriteJSON(*out, c); err != nil {
		return fail(stderr, &convert.Error{Kind: convert.KindOutputUnwritable, Path: *out, Err: err})
	}
	_, _ = fmt.Fprintf(stdout, "Cast of %d characters written to %s\n", len(c.Characters), *out)
	return exitOK
}

func runIndex(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("index", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file")
	db := flags.String("db", "", "line index database (default from config)")
	in := flags.String("in", "", "input transcript")
	source := flags.String("source", "", "source name (default: input file name)")
	list := flags.Bool("list", false, "list the imported sources instead of importing")
	if code := parseFlags(flags, args, stderr); code != nil {
		return *code
	}
	if flags.NArg() > 0 {
		return usageErr(stderr, flags, "unexpected arguments: "+strings.Join(flags.Args(), " "))
	}
	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer applog.Close()
	set := visited(flags)
	if set["in"] {
		cfg.Input = *in
	}
	if set["db"] {
		cfg.Index = *db
	}
	if strings.TrimSpace(cfg.Index) == "" {
		return usageErr(stderr, flags, "-db is required")
	}
	if *list {
		return listImports(ctx, cfg.Index, stdout, stderr)
	}
	src := strings.TrimSpace(*source)
	if src == "" {
		src = convert.SourceName(cfg.Input)
	}

	recs, _, err := convert.Records(cfg.Input)
	if err != nil {
		return fail(stderr, err)
	}
	h, err := storage.OpenIndex(ctx, cfg.Index)
	if err != nil {
		return fail(stderr, err)
	}
	defer h.Close()
	imp, err := storage.ImportRecords(ctx, h, src, recs)
	if err != nil {
		return fail(stderr, err)
	}
	if err := storage.SetMeta(ctx, h, storage.InputMetaKey(imp.Source), cfg.Input); err != nil {
		return fail(stderr, err)
	}
	_, _ = fmt.Fprintf(stdout, "Indexed %d entries from %s as %s (import %s)\n", imp.Rows, cfg.Input, imp.Source, imp.ID)
	return exitOK
}

// listImports prints one line per imported source: name, rows, time, import id, input path.
func listImports(ctx context.Context, path string, stdout, stderr io.Writer) int {
	h, err := storage.OpenIndex(ctx, path)
	if err != nil {
		return fail(stderr, err)
	}
	defer h.Close()
	imps, err := storage.Imports(ctx, h)
	if err != nil {
		return fail(stderr, err)
	}
	for _, imp := range imps {
		input, err := storage.Meta(ctx, h, storage.InputMetaKey(imp.Source))
		if err != nil {
			return fail(stderr, err)
		}
		_, _ = fmt.Fprintf(stdout, "%s\t%d\t%s\t%s\t%s\n", imp.Source, imp.Rows, imp.CreatedAt.Format(time.RFC3339), imp.ID, input)
	}
	if len(imps) == 0 {
		_, _ = fmt.Fprintln(stderr, "No imports.")
	}
	return exitOK
}

func runSearch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file")
	db := flags.String("db", "", "line index database (default from config)")
	var q storage.Query
	flags.StringVar(&q.Player, "player", "", "only lines of this character")
	flags.StringVar(&q.Act, "act", "", "only lines of this act (roman numeral)")
	flags.StringVar(&q.Scene, "scene", "", "only lines of this scene (roman numeral)")
	flags.StringVar(&q.Source, "source", "", "only lines of this source")
	flags.IntVar(&q.Limit, "limit", 20, "maximum number of hits")
	flags.IntVar(&q.Offset, "offset", 0, "hits to skip")
	players := flags.Bool("players", false, "list the speaking characters instead of lines")
	if code := parseFlags(flags, args, stderr); code != nil {
		return *code
	}
	q.Text = strings.Join(flags.Args(), " ")

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer applog.Close()
	if visited(flags)["db"] {
		cfg.Index = *db
	}
	if strings.TrimSpace(cfg.Index) == "" {
		return usageErr(stderr, flags, "-db is required")
	}

	h, err := storage.OpenIndex(ctx, cfg.Index)
	if err != nil {
		return fail(stderr, err)
	}
	defer h.Close()
	if *players {
		names, err := storage.Players(ctx, h, q.Source)
		if err != nil {
			return fail(stderr, err)
		}
		for _, n := range names {
			_, _ = fmt.Fprintln(stdout, n)
		}
		return exitOK
	}
	hits, err := storage.Search(ctx, h, q)
	if err != nil {
		return fail(stderr, err)
	}
	for _, hit := range hits {
		text := hit.Text
		if hit.Snippet != "" {
			text = hit.Snippet
		}
		_, _ = fmt.Fprintf(stdout, "%s:%d\t%s.%s\t%s\t%s\n", hit.Source, hit.Line, hit.Act, hit.Scene, hit.Player, text)
	}
	if len(hits) == 0 {
		_, _ = fmt.Fprintln(stderr, "No matches.")
	}
	return exitOK
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("config", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file")
	if code := parseFlags(flags, args, stderr); code != nil {
		return *code
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(stderr, err)
	}
	if err := config.Write(stdout, cfg); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}
