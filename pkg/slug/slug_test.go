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

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "multi_word", input: "Santa Cruz de Tenerife", want: "santa-cruz-de-tenerife"},
		{name: "leading_accent", input: "Álava", want: "alava"},
		{name: "tilde_n", input: "A Coruña", want: "a-coruna"},
		{name: "collapse_without_trim", input: "  multi   space ", want: "-multi-space-"},
		{name: "already_slug", input: "toledo", want: "toledo"},
		{name: "empty", input: "", want: ""},
		{name: "tabs_and_newlines", input: "Ciudad\t\nReal", want: "ciudad-real"},
		{name: "non_breaking_space", input: "Las\u00a0Palmas", want: "las-palmas"},
		{name: "precomposed_and_decomposed", input: "C\u00e1diz Ca\u0301diz", want: "cadiz-cadiz"},
		{name: "diaeresis", input: "Pingüino", want: "pinguino"},
		{name: "hyphen_kept", input: "Vitoria-Gasteiz", want: "vitoria-gasteiz"},
		{name: "punctuation_kept", input: "Lleida, Girona", want: "lleida,-girona"},
		{name: "non_decomposable_kept", input: "Øresund", want: "øresund"},
		{name: "marks_outside_block_kept", input: "a\u20d7", want: "a\u20d7"},
		{name: "next_line_is_not_space", input: "a\u0085b", want: "a\u0085b"},
		{name: "only_spaces", input: "   ", want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input), "Normalize(%q)", tt.input)
		})
	}
}

func TestNormalizeIsIdempotentOnSlugs(t *testing.T) {
	for _, in := range []string{"Santa Cruz de Tenerife", "Álava", "A Coruña", "La Rioja"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalizing a slug should not change it")
	}
}

func TestNormalizeInvalidUTF8DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = Normalize("bad \xff bytes")
	})
}
