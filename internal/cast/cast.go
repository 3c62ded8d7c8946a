/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cast derives the dramatis personae of a parsed play: who speaks,
// in which scenes, how much, and which characters share the stage.
// The JSON it writes feeds the character network view of the site.
package cast

import (
	"playparse/internal/script"
)

// Group ranks a character by presence in the play.
type Group int

const (
	GroupMajor      Group = 1
	GroupSupporting Group = 2
	GroupMinor      Group = 3
	GroupBackground Group = 4
)

func (g Group) String() string {
	switch g {
	case GroupMajor:
		return "Major Character"
	case GroupSupporting:
		return "Supporting Character"
	case GroupMinor:
		return "Minor Character"
	default:
		return "Background Character"
	}
}

// Score weights and group thresholds.
const (
	lineWeight  = 0.6
	sceneWeight = 0.4

	majorAt      = 0.15
	supportingAt = 0.08
	minorAt      = 0.02
)

// Character is one speaking part with the scenes it appears in.
type Character struct {
	Name       string   `json:"name"`
	Scenes     []string `json:"scenes"`
	SceneCount int      `json:"sceneCount"`
	LineCount  int      `json:"lineCount"`
	Group      Group    `json:"group"`
	GroupName  string   `json:"groupName"`
}

// Link connects two characters appearing in at least one common scene.
type Link struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Value        int      `json:"value"`
	SharedScenes []string `json:"sharedScenes"`
}

// Totals are the denominators of the group score.
type Totals struct {
	Scenes int `json:"scenes"`
	Lines  int `json:"lines"`
}

// Cast is the document written by WriteJSON.
type Cast struct {
	Totals     Totals      `json:"totals"`
	Characters []Character `json:"characters"`
	Links      []Link      `json:"links"`
}

// SceneKey identifies the scene of a record as "<act>.<scene>".
func SceneKey(r script.Record) string { return r.Act + "." + r.Scene }

// Build derives the cast from records. Characters and their scenes keep the
// order of first appearance; stage directions count toward the scene total
// but never become characters.
func Build(records []script.Record) Cast {
	allScenes := map[string]struct{}{}
	index := map[string]int{}
	var chars []Character
	seen := map[string]map[string]struct{}{}
	totalLines := 0

	for _, r := range records {
		key := SceneKey(r)
		allScenes[key] = struct{}{}
		if r.Player == script.StageDirection || r.Player == "" {
			continue
		}
		totalLines++
		i, ok := index[r.Player]
		if !ok {
			i = len(chars)
			index[r.Player] = i
			chars = append(chars, Character{Name: r.Player, Scenes: []string{}})
			seen[r.Player] = map[string]struct{}{}
		}
		chars[i].LineCount++
		if _, dup := seen[r.Player][key]; !dup {
			seen[r.Player][key] = struct{}{}
			chars[i].Scenes = append(chars[i].Scenes, key)
		}
	}

	c := Cast{
		Totals:     Totals{Scenes: len(allScenes), Lines: totalLines},
		Characters: make([]Character, 0, len(chars)),
		Links:      []Link{},
	}
	for _, ch := range chars {
		ch.SceneCount = len(ch.Scenes)
		ch.Group = classify(ch.SceneCount, ch.LineCount, c.Totals)
		ch.GroupName = ch.Group.String()
		c.Characters = append(c.Characters, ch)
	}

	for i := 0; i < len(c.Characters); i++ {
		for j := i + 1; j < len(c.Characters); j++ {
			a, b := c.Characters[i], c.Characters[j]
			var shared []string
			for _, s := range a.Scenes {
				if _, ok := seen[b.Name][s]; ok {
					shared = append(shared, s)
				}
			}
			if len(shared) > 0 {
				c.Links = append(c.Links, Link{Source: a.Name, Target: b.Name, Value: len(shared), SharedScenes: shared})
			}
		}
	}
	return c
}

func classify(scenes, lines int, t Totals) Group {
	totalScenes := max(t.Scenes, 1)
	totalLines := max(t.Lines, 1)
	score := lineWeight*float64(lines)/float64(totalLines) + sceneWeight*float64(scenes)/float64(totalScenes)
	switch {
	case score >= majorAt:
		return GroupMajor
	case score >= supportingAt:
		return GroupSupporting
	case score >= minorAt:
		return GroupMinor
	default:
		return GroupBackground
	}
}
