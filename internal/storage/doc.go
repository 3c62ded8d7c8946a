/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the line index, an embedded SQLite database of parsed play records.
// Each import replaces every line previously imported from the same source, so re-running a conversion never duplicates rows.
// Dialogue and stage directions are searchable through an FTS5 table kept in sync with the lines table by triggers.
// The index is derived from the transcripts and is rebuildable/disposable: deleting the file loses nothing.
package storage
