// Copyright 2025 walteh LLC
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

// Package slug turns display text into the URL-slug form used by identifier
// columns: accents stripped, lowercased, whitespace runs collapsed to "-".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 🔧 Normalizer converts text to its slug form
type Normalizer func(string) string

// combining diacritical marks block, U+0300..U+036F
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isCombiningMark)))

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// isSpace matches the ECMAScript \s class: unicode.IsSpace without NEL, plus BOM.
func isSpace(r rune) bool {
	if r == 0xFEFF {
		return true
	}
	return r != 0x85 && unicode.IsSpace(r)
}

// 🎯 Normalize decomposes text, strips combining marks, lowercases it and
// replaces each whitespace run with a single hyphen. Leading and trailing
// whitespace become hyphens too; nothing is trimmed.
//
//	Normalize("Santa Cruz de Tenerife") // "santa-cruz-de-tenerife"
//	Normalize("A Coruña")               // "a-coruna"
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = strings.Map(func(r rune) rune {
			if isCombiningMark(r) {
				return -1
			}
			return r
		}, norm.NFD.String(text))
	}

	lower := strings.ToLower(stripped)

	var sb strings.Builder
	sb.Grow(len(lower))
	inSpace := false
	for _, r := range lower {
		if isSpace(r) {
			if !inSpace {
				sb.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
