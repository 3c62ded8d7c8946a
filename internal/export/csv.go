/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes parsed play records to files: the act/scene/player/text
// CSV table and a printable reading script.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"playparse/internal/script"
)

// Header is the fixed first row of every CSV table.
var Header = []string{"act", "scene", "player", "text"}

// CSVOptions controls CSV rendering.
// CRLF ends rows with \r\n as RFC 4180 (and most spreadsheet tools) expect;
// otherwise rows end with \n.
type CSVOptions struct {
	CRLF bool
}

// WriteCSV writes the header and one row per record.
// Fields with commas, quotes or line breaks are quoted by encoding/csv.
func WriteCSV(w io.Writer, records []script.Record, opt CSVOptions) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = opt.CRLF
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write([]string{r.Act, r.Scene, r.Player, r.Text}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile renders the whole table in memory and replaces path with it.
func WriteCSVFile(path string, records []script.Record, opt CSVOptions) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, opt); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}
