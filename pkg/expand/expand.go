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

// Package expand turns a template table into one block of rows per data row:
// the original row followed by one substituted copy per replacement value.
package expand

import (
	"github.com/walteh/csvexpand/pkg/slug"
	"github.com/walteh/csvexpand/pkg/table"
	"github.com/walteh/csvexpand/pkg/text"
)

// IdentifierColumn is the column holding the URL slug
const IdentifierColumn = 0

// 🔧 Options configures an Expander
type Options struct {
	// ReplaceAll replaces every occurrence instead of only the first one
	ReplaceAll bool

	// Normalizer computes the slug form used on the identifier column
	Normalizer slug.Normalizer

	// Progress, when set, is called after each data row with the number of
	// rows done and the total
	Progress func(done, total int)
}

// Option mutates Options
type Option func(*Options)

// WithReplaceAll toggles replace-all substitution
func WithReplaceAll(all bool) Option {
	return func(o *Options) {
		o.ReplaceAll = all
	}
}

// WithNormalizer overrides the slug normalizer
func WithNormalizer(n slug.Normalizer) Option {
	return func(o *Options) {
		if n != nil {
			o.Normalizer = n
		}
	}
}

// WithProgress reports per-row progress to fn
func WithProgress(fn func(done, total int)) Option {
	return func(o *Options) {
		o.Progress = fn
	}
}

// 📊 Result is an expanded table plus counters for reporting
type Result struct {
	Table         table.Table
	SourceRows    int // data rows in the template
	GeneratedRows int // substituted rows appended
	Substitutions int // cells whose value changed
}

// 🎯 Expander expands tables. It holds no state between calls.
type Expander struct {
	opts     Options
	replacer *text.Replacer
}

// 🏭 New creates an expander
func New(opts ...Option) *Expander {
	o := Options{
		Normalizer: slug.Normalize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Expander{
		opts:     o,
		replacer: text.NewReplacer(o.ReplaceAll),
	}
}

// Expand runs the default expander and returns only the table
func Expand(t table.Table, keyword string, replacements []string) table.Table {
	return New().Expand(t, keyword, replacements).Table
}

// substitution is the pair of rules applied for one replacement value
type substitution struct {
	literal text.Rule
	slug    text.Rule
}

func (e *Expander) substitutions(keyword string, replacements []string) []substitution {
	normKeyword := e.opts.Normalizer(keyword)
	subs := make([]substitution, len(replacements))
	for i, v := range replacements {
		subs[i] = substitution{
			literal: text.Rule{From: keyword, To: v},
			slug:    text.Rule{From: normKeyword, To: e.opts.Normalizer(v)},
		}
	}
	return subs
}

// 🏃 Expand produces the header followed by, for each data row, the row itself
// and one substituted row per replacement in list order. The input is never
// modified.
func (e *Expander) Expand(t table.Table, keyword string, replacements []string) *Result {
	if len(t) == 0 {
		return &Result{Table: t.Clone()}
	}

	data := t.Data()
	subs := e.substitutions(keyword, replacements)

	out := make(table.Table, 0, 1+len(data)*(1+len(subs)))
	out = append(out, t.Header().Clone())

	result := &Result{SourceRows: len(data)}
	for i, row := range data {
		block, changed := e.expandRow(row, subs)
		out = append(out, block...)
		result.GeneratedRows += len(block) - 1
		result.Substitutions += changed
		if e.opts.Progress != nil {
			e.opts.Progress(i+1, len(data))
		}
	}

	result.Table = out
	return result
}

func (e *Expander) expandRow(row table.Row, subs []substitution) ([]table.Row, int) {
	block := make([]table.Row, 0, 1+len(subs))
	block = append(block, row.Clone())

	changed := 0
	for _, sub := range subs {
		next := make(table.Row, len(row))
		for i, cell := range row {
			if !cell.IsText() {
				next[i] = cell
				continue
			}

			res := e.replacer.Replace(cell.String(), sub.literal)
			value := res.Modified

			if i == IdentifierColumn && value != "" {
				value, _ = sub.slug.Apply(value, e.opts.ReplaceAll)
			}

			if value != cell.String() {
				changed++
			}
			next[i] = table.Text(value)
		}
		block = append(block, next)
	}

	return block, changed
}
