// Package text implements the literal substitution rules applied to cells
package text

import (
	"strings"
)

// 🔄 Rule is a single literal substitution
type Rule struct {
	// From is the literal text to search for; an empty From never matches
	From string

	// To is the replacement text
	To string
}

// 📊 Result contains the outcome of applying a chain of rules
type Result struct {
	// Original is the text before substitution
	Original string

	// Modified is the text after substitution
	Modified string

	// Count is the number of occurrences replaced
	Count int
}

// WasModified reports whether any rule fired
func (r *Result) WasModified() bool {
	return r.Count > 0
}

// Apply replaces the first occurrence of From with To, or every occurrence
// when all is set. It returns the new text and the number of replacements.
func (r Rule) Apply(s string, all bool) (string, int) {
	if r.From == "" {
		return s, 0
	}

	if all {
		n := strings.Count(s, r.From)
		if n == 0 {
			return s, 0
		}
		return strings.ReplaceAll(s, r.From, r.To), n
	}

	idx := strings.Index(s, r.From)
	if idx < 0 {
		return s, 0
	}
	return s[:idx] + r.To + s[idx+len(r.From):], 1
}

// 🔧 Replacer applies ordered rule chains, each rule seeing the output of the previous one
type Replacer struct {
	all bool
}

// NewReplacer creates a replacer. With all set every occurrence is replaced,
// otherwise only the first.
func NewReplacer(all bool) *Replacer {
	return &Replacer{all: all}
}

// Replace runs the rules in order over s
func (r *Replacer) Replace(s string, rules ...Rule) *Result {
	result := &Result{
		Original: s,
		Modified: s,
	}

	for _, rule := range rules {
		next, n := rule.Apply(result.Modified, r.all)
		result.Modified = next
		result.Count += n
	}

	return result
}
