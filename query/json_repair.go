// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"strings"
	"unicode"
)

// repairJSON fixes the malformed-key pattern some models emit, where an
// object key is missing its opening quote. Example: `{answer": "x"}`
// becomes `{"answer": "x"}`. Anything it cannot recognize passes through
// unchanged.
func repairJSON(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)

	i := 0
	for i < len(runes) {
		ch := runes[i]
		b.WriteRune(ch)
		i++

		// Keys only start after an opening brace or a comma.
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(runes) && unicode.IsSpace(runes[i]) {
			b.WriteRune(runes[i])
			i++
		}
		if i >= len(runes) || runes[i] == '"' || !unicode.IsLetter(runes[i]) {
			continue
		}

		start := i
		for i < len(runes) && (unicode.IsLetter(runes[i]) || runes[i] == '_' || runes[i] == ' ') {
			i++
		}

		key := string(runes[start:i])
		if i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			// Bare key followed by a stray closing quote and a colon.
			b.WriteRune('"')
			b.WriteString(strings.TrimSpace(key))
		} else {
			b.WriteString(key)
		}
	}

	return b.String()
}

// stripFences removes markdown code fences models sometimes wrap their
// JSON output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
