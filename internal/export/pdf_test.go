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
	"os"
	"path/filepath"
	"testing"

	"playparse/internal/script"
)

func TestWritePDFCreatesFile(t *testing.T) {
	recs := script.ParseString(`### **ACT II**
### **SCENE I.**
*Enter a FAIRY at one door, and PUCK at another*
**PUCK**
How now, spirit! whither wander you?
**FAIRY**
Over hill, over dale,
Thorough bush, thorough brier,
### **SCENE II.**
**TITANIA**
Come, now a roundel and a fairy song; naïve café.`)

	out := filepath.Join(t.TempDir(), "exports", "dream.pdf")
	if err := WritePDF(out, recs, PDFOptions{Title: "A Midsummer Night's Dream"}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", b[:8])
	}
}

func TestRenderPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, nil, PDFOptions{}); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a one-page PDF")
	}
}
