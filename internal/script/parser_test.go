/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"reflect"
	"testing"
)

func TestParsePuckScenario(t *testing.T) {
	input := `### **ACT I**
### **SCENE I.**
**PUCK**
Up and down, up and down.`

	recs := ParseString(input)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(recs), recs)
	}
	want := Record{Act: "I", Scene: "I", Player: "PUCK", Text: "Up and down, up and down.", Line: 4}
	if recs[0] != want {
		t.Fatalf("got %+v, want %+v", recs[0], want)
	}
}

func TestStageDirectionBeforeAnyCue(t *testing.T) {
	recs := ParseString("*Enter PUCK*")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Act != "" || r.Scene != "" || r.Player != StageDirection || r.Text != "Enter PUCK" {
		t.Fatalf("unexpected stage direction record: %+v", r)
	}
}

func TestPlainTextBeforeCueIsDropped(t *testing.T) {
	recs := ParseString("A Midsummer Night's Dream\n\nDramatis Personae")
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs)
	}
}

func TestCueWithParentheses(t *testing.T) {
	recs := ParseString("**OBERON (aside)**\nI wonder if Titania be awaked.")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Player != "OBERON (aside)" {
		t.Fatalf("player = %q, want %q", recs[0].Player, "OBERON (aside)")
	}
}

func TestActPropagatesAcrossScenes(t *testing.T) {
	input := `### **ACT II**
### **SCENE I.**
**PUCK**
How now, spirit!
### **SCENE II.**
*Enter TITANIA*
**TITANIA**
Come, now a roundel and a fairy song.
### **SCENE III.**
Still Titania.`

	recs := ParseString(input)
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(recs), recs)
	}
	for _, r := range recs {
		if r.Act != "II" {
			t.Fatalf("expected act II on every record, got %+v", r)
		}
	}
	gotScenes := []string{recs[0].Scene, recs[1].Scene, recs[2].Scene, recs[3].Scene}
	if want := []string{"I", "II", "II", "III"}; !reflect.DeepEqual(gotScenes, want) {
		t.Fatalf("scenes = %v, want %v", gotScenes, want)
	}
	if recs[3].Player != "TITANIA" {
		t.Fatalf("speaker should persist across scene change, got %q", recs[3].Player)
	}
}

func TestHeadingsWithNonBreakingSpaces(t *testing.T) {
	recs := ParseString("### **ACT I**\n### **ACT\u00a0II**\n###\u00a0**SCENE\u00a0II.**\n**PUCK**\nHow now.")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(recs), recs)
	}
	if recs[0].Act != "II" || recs[0].Scene != "II" {
		t.Fatalf("headings with NBSP not applied: %+v", recs[0])
	}
}

func TestSceneSurvivesActChange(t *testing.T) {
	input := `### **ACT I**
### **SCENE II.**
### **ACT II**
**BOTTOM**
Are we all met?`
	recs := ParseString(input)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Act != "II" || recs[0].Scene != "II" {
		t.Fatalf("expected act II scene II, got %+v", recs[0])
	}
}

func TestSpeakerSurvivesStageDirection(t *testing.T) {
	input := `**LYSANDER**
How now, my love!
*Aside*
Why is your cheek so pale?`
	recs := ParseString(input)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[1].Player != StageDirection || recs[2].Player != "LYSANDER" {
		t.Fatalf("unexpected attribution: %+v", recs)
	}
}

func TestOrderAndRowCount(t *testing.T) {
	input := "  **HERMIA**  \r\n" +
		"\r\n" +
		"Good speed, fair Helena!\r\n" +
		"# Notes\r\n" +
		"**bad cue**\r\n" +
		"*Exit*\r" +
		"Whither away?\n"
	recs := ParseString(input)
	var texts []string
	for _, r := range recs {
		texts = append(texts, r.Text)
	}
	want := []string{"Good speed, fair Helena!", "Exit", "Whither away?"}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("texts = %q, want %q", texts, want)
	}
	if recs[2].Line != 7 {
		t.Fatalf("expected source line 7 for last record, got %d", recs[2].Line)
	}
}

func TestRecordsAreSnapshots(t *testing.T) {
	var ctx Context
	ctx.Apply(Classify("### **ACT I**"), 1)
	ctx.Apply(Classify("**PUCK**"), 2)
	first, ok := ctx.Apply(Classify("Thou speak'st aright."), 3)
	if !ok {
		t.Fatalf("expected dialogue to emit")
	}
	ctx.Apply(Classify("### **ACT V**"), 4)
	ctx.Apply(Classify("**THESEUS**"), 5)
	if first.Act != "I" || first.Player != "PUCK" {
		t.Fatalf("record changed after context update: %+v", first)
	}
}

func TestSummarize(t *testing.T) {
	lines := SplitLines("Prologue\n\n### **ACT I**\n**QUINCE**\nIs all our company here?\n*Enter BOTTOM*")
	st := Summarize(lines)
	if st.Lines != 6 || st.Blank != 1 {
		t.Fatalf("unexpected line counts: %+v", st)
	}
	if st.Dropped != 1 {
		t.Fatalf("expected 1 dropped dialogue line, got %d", st.Dropped)
	}
	if st.ByKind[KindDialogue] != 2 || st.ByKind[KindActHeading] != 1 || st.ByKind[KindStageDirection] != 1 {
		t.Fatalf("unexpected kind counts: %+v", st.ByKind)
	}
}

func TestParseEmpty(t *testing.T) {
	if recs := ParseString(""); len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs)
	}
	if lines := SplitLines("\n"); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
	if lines := SplitLines("a\r\n\r\nb"); len(lines) != 3 || lines[1] != "" {
		t.Fatalf("expected blank middle line, got %q", lines)
	}
}
