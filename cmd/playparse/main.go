/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Command playparse converts a markdown play transcript into an act/scene/player/text CSV table.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"playparse/internal/crash"
	"playparse/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "playparse: markdown play transcript to CSV")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  playparse [convert] [-config f] [-in f] [-out f] [-pdf f] [-cast f] [-index f] [-lf]")
	_, _ = fmt.Fprintln(w, "                                            Convert the transcript (default command)")
	_, _ = fmt.Fprintln(w, "  playparse cast [-in f] [-out f]           Write the cast summary JSON (stdout by default)")
	_, _ = fmt.Fprintln(w, "  playparse index -db f [-in f] [-source s] Import the transcript into a line index")
	_, _ = fmt.Fprintln(w, "  playparse index -db f -list               List imported sources")
	_, _ = fmt.Fprintln(w, "  playparse search -db f [filters] [query]  Search an index")
	_, _ = fmt.Fprintln(w, "  playparse search -db f -players [-source s] List speaking characters")
	_, _ = fmt.Fprintln(w, "  playparse config [-config f]              Print the effective configuration")
	_, _ = fmt.Fprintln(w, "  playparse version|-v|--version            Show version")
}

func main() {
	defer crash.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches args to a command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			_, _ = fmt.Fprintln(stdout, version.String())
			return exitOK
		case "help", "--help", "-h":
			usage(stdout)
			return exitOK
		}
	}
	cmd := "convert"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "convert":
		return runConvert(ctx, args, stdout, stderr)
	case "cast":
		return runCast(ctx, args, stdout, stderr)
	case "index":
		return runIndex(ctx, args, stdout, stderr)
	case "search":
		return runSearch(ctx, args, stdout, stderr)
	case "config":
		return runConfig(args, stdout, stderr)
	}
	_, _ = fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
	usage(stderr)
	return exitUsage
}
