/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"playparse/internal/script"
)

// PDFOptions controls the reading-script PDF.
// Units are points (pt). Built-in Helvetica keeps the file small; UTF-8 text
// is translated to the cp1252 code page of the core fonts, so characters
// outside it render as '?'.
type PDFOptions struct {
	Title    string  // document title and first-page heading
	PageSize string  // gofpdf size name, default "A4"
	FontSize float64 // body size, default 11
}

func (o PDFOptions) withDefaults() PDFOptions {
	if strings.TrimSpace(o.PageSize) == "" {
		o.PageSize = "A4"
	}
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
	if strings.TrimSpace(o.Title) == "" {
		o.Title = "Reading Script"
	}
	return o
}

// RenderPDF lays out records as a reading script: act and scene headings when
// they change, a bold cue whenever the speaker changes, italic stage directions.
func RenderPDF(w io.Writer, records []script.Record, opt PDFOptions) error {
	opt = opt.withDefaults()
	pdf := gofpdf.New("P", "pt", opt.PageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(opt.Title, true)
	pdf.SetCreator("playparse", true)
	pdf.SetMargins(56, 56, 56)
	pdf.SetAutoPageBreak(true, 56)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-40)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	line := opt.FontSize * 1.35
	pdf.SetFont("Helvetica", "B", opt.FontSize*1.8)
	pdf.MultiCell(0, opt.FontSize*2.2, tr(opt.Title), "", "C", false)
	pdf.Ln(line)

	var act, scene, speaker string
	first := true
	for _, r := range records {
		if first || r.Act != act {
			if r.Act != "" {
				pdf.Ln(line / 2)
				pdf.SetFont("Helvetica", "B", opt.FontSize*1.4)
				pdf.MultiCell(0, line*1.3, tr("ACT "+r.Act), "", "L", false)
			}
			speaker = ""
		}
		if first || r.Scene != scene || r.Act != act {
			if r.Scene != "" {
				pdf.SetFont("Helvetica", "B", opt.FontSize*1.15)
				pdf.MultiCell(0, line*1.1, tr("Scene "+r.Scene), "", "L", false)
				pdf.Ln(line / 3)
			}
			speaker = ""
		}
		act, scene, first = r.Act, r.Scene, false

		if r.Player == script.StageDirection {
			pdf.SetFont("Helvetica", "I", opt.FontSize)
			pdf.SetX(pdf.GetX() + 24)
			pdf.MultiCell(0, line, tr(r.Text), "", "L", false)
			continue
		}
		if r.Player != speaker {
			pdf.Ln(line / 3)
			pdf.SetFont("Helvetica", "B", opt.FontSize)
			pdf.MultiCell(0, line, tr(r.Player), "", "L", false)
			speaker = r.Player
		}
		pdf.SetFont("Helvetica", "", opt.FontSize)
		pdf.MultiCell(0, line, tr(r.Text), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WritePDF renders the reading script and replaces path with it.
func WritePDF(path string, records []script.Record, opt PDFOptions) error {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, records, opt); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}
