/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Apply folds one classified line into the context.
// Headings and character cues only update the context. Stage directions
// always emit; dialogue emits only once a speaker is known.
func (c *Context) Apply(cl Classification, lineNo int) (Record, bool) {
	switch cl.Kind {
	case KindActHeading:
		c.Act = cl.Value
	case KindSceneHeading:
		c.Scene = cl.Value
	case KindCharacterCue:
		c.Speaker = cl.Value
	case KindStageDirection:
		return Record{Act: c.Act, Scene: c.Scene, Player: StageDirection, Text: cl.Value, Line: lineNo}, true
	case KindDialogue:
		if c.Speaker == "" {
			return Record{}, false
		}
		return Record{Act: c.Act, Scene: c.Scene, Player: c.Speaker, Text: cl.Value, Line: lineNo}, true
	}
	return Record{}, false
}

// Parse converts an ordered list of raw transcript lines into records.
// Supported syntax:
//   - ### **ACT <numeral>** sets the current act
//   - ### **SCENE <numeral>.** sets the current scene
//   - *text* is a stage direction
//   - **NAME** is a character cue (uppercase letters, spaces, parentheses)
//   - anything else not starting with '#' or '*' is dialogue for the last cue
//
// Blank and unrecognized lines are dropped. Parse never fails.
func Parse(lines []string) []Record {
	var ctx Context
	out := make([]Record, 0, len(lines)/2)
	for i, raw := range lines {
		cl := Classify(raw)
		if rec, ok := ctx.Apply(cl, i+1); ok {
			out = append(out, rec)
		}
	}
	return out
}

// ParseString splits input on any of \r\n, \r or \n and parses the lines.
func ParseString(input string) []Record {
	if input == "" {
		return []Record{}
	}
	return Parse(SplitLines(input))
}

// SplitLines splits input into lines, treating \r\n, \r and \n alike.
// A trailing line break does not produce an extra empty line.
func SplitLines(input string) []string {
	s := lineBreaks.Replace(input)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Stats summarizes how the lines of a transcript were classified.
type Stats struct {
	Lines   int
	Blank   int
	ByKind  map[Kind]int
	Dropped int // dialogue seen before any character cue
}

// Summarize classifies every line and counts kinds; useful for diagnostics.
func Summarize(lines []string) Stats {
	st := Stats{Lines: len(lines), ByKind: map[Kind]int{}}
	var ctx Context
	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			st.Blank++
			continue
		}
		cl := Classify(raw)
		st.ByKind[cl.Kind]++
		if _, ok := ctx.Apply(cl, i+1); !ok && cl.Kind == KindDialogue {
			st.Dropped++
		}
	}
	return st
}
