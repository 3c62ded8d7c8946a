/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// StageDirection is the player label written for italic stage-direction lines.
const StageDirection = "StageDirection"

// Kind indicates how a single trimmed line of a play transcript was classified.
// ActHeading:     ### **ACT II**
// SceneHeading:   ### **SCENE I.**
// StageDirection: *Enter PUCK*
// CharacterCue:   **PUCK** or **OBERON (aside)**
// Dialogue:       any other line not starting with '#' or '*'

type Kind int

const (
	KindUnrecognized Kind = iota
	KindActHeading
	KindSceneHeading
	KindStageDirection
	KindCharacterCue
	KindDialogue
)

func (k Kind) String() string {
	switch k {
	case KindActHeading:
		return "act"
	case KindSceneHeading:
		return "scene"
	case KindStageDirection:
		return "stage_direction"
	case KindCharacterCue:
		return "character"
	case KindDialogue:
		return "dialogue"
	default:
		return "unrecognized"
	}
}

// Classification is the result of classifying one line.
// Value holds the captured numeral for headings, the unwrapped content for
// stage directions and cues, and the verbatim line for dialogue.
type Classification struct {
	Kind  Kind
	Value string
}

// Record is one output row. Records are values: they snapshot the running
// context at the moment they are emitted.
type Record struct {
	Act    string
	Scene  string
	Player string
	Text   string
	Line   int // 1-based source line number
}

// Context is the running state threaded through a parse.
// Scene is not reset when a new act starts, and Speaker survives stage directions.
type Context struct {
	Act     string
	Scene   string
	Speaker string
}
