/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"regexp"
	"strings"
	"unicode"
)

// ws matches one whitespace rune the way Unicode-aware regex engines do:
// ASCII space and controls plus every Unicode separator (NBSP, thin space, ...).
const ws = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// Patterns
var (
	reAct   = regexp.MustCompile(`###` + ws + `*\*\*ACT` + ws + `+([IVX]+)\*\*`)
	reScene = regexp.MustCompile(`###` + ws + `*\*\*SCENE` + ws + `+([IVX]+)\.`)
	// single '*' wrapping; the inner text must not start with '*' (that would be bold)
	reStage = regexp.MustCompile(`^\*([^*].+?)\*` + ws + `*$`)
	// Cue names are uppercase; a parenthetical such as "(aside)" may hold any
	// case. \p{Z} also admits non-breaking spaces that document exporters emit.
	reCue = regexp.MustCompile(`^\*\*([A-Z](?:[A-Z\s\v\p{Z}()]|\([^()*]*\))+)\*\*` + ws + `*$`)
)

type rule struct {
	kind  Kind
	match func(line string) (string, bool)
}

func submatch(re *regexp.Regexp) func(string) (string, bool) {
	return func(line string) (string, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{KindActHeading, submatch(reAct)},
	{KindSceneHeading, submatch(reScene)},
	{KindStageDirection, submatch(reStage)},
	{KindCharacterCue, func(line string) (string, bool) {
		m := reCue.FindStringSubmatch(line)
		if m == nil {
			return "", false
		}
		return upperOutsideParens(strings.TrimSpace(m[1])), true
	}},
	{KindDialogue, func(line string) (string, bool) {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") {
			return "", false
		}
		return line, true
	}},
}

// upperOutsideParens uppercases the name part of a cue and keeps parentheticals as written.
func upperOutsideParens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Classify classifies a single line without regard to any running context.
// The line is trimmed first; an empty line is KindUnrecognized.
// Whether a dialogue line is kept depends on the context (see Context.Apply).
func Classify(line string) Classification {
	line = strings.TrimSpace(line)
	if line == "" {
		return Classification{Kind: KindUnrecognized}
	}
	for _, r := range rules {
		if v, ok := r.match(line); ok {
			return Classification{Kind: r.kind, Value: v}
		}
	}
	return Classification{Kind: KindUnrecognized}
}
