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

package operation

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/expand"
	"github.com/walteh/csvexpand/pkg/locality"
	"github.com/walteh/csvexpand/pkg/log"
	"github.com/walteh/csvexpand/pkg/source"
	"github.com/walteh/csvexpand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewExpandOperation creates the operation that expands every configured input
func NewExpandOperation(opts Options) (*ExpandOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &ExpandOperation{BaseOperation: base}, nil
}

// 📦 ExpandOperation expands each input template and writes one output per input
type ExpandOperation struct {
	BaseOperation

	mu       sync.Mutex
	failures []error
}

// 🏃 Execute resolves the replacement list and the inputs, then expands every
// input. A failing input is reported and the remaining inputs still run.
func (op *ExpandOperation) Execute(ctx context.Context) error {
	cfg := op.Config

	replacements, listName, err := ResolveReplacements(ctx, cfg, op.Opener)
	if err != nil {
		return errors.Errorf("resolving replacements: %w", err)
	}

	inputs, err := ResolveInputs(cfg)
	if err != nil {
		return errors.Errorf("resolving inputs: %w", err)
	}

	if err := checkOutputs(cfg, inputs); err != nil {
		return err
	}

	op.logger(ctx).Debug().
		Str("keyword", cfg.Keyword).
		Int("replacements", len(replacements)).
		Int("inputs", len(inputs)).
		Msg("expanding inputs")

	console := log.Ctx(ctx)
	console.StartJobOperation(ctx, log.JobOperation{
		Keyword:      cfg.Keyword,
		List:         listName,
		Replacements: len(replacements),
		OutputDir:    op.StatusMgr.BaseDir(),
	})
	defer console.EndJobOperation(ctx)

	expander := expand.New(expand.WithReplaceAll(cfg.ReplaceAll))

	files := make([]Operation, 0, len(inputs))
	for _, input := range inputs {
		files = append(files, &fileOperation{
			parent:       op,
			input:        input,
			replacements: replacements,
			expander:     expander,
		})
	}

	op.failures = nil
	op.StatusMgr.StartOperation(ctx, len(files))
	if err := NewRunner(op.logger(ctx), cfg.Async).Run(ctx, files...); err != nil {
		return err
	}
	op.StatusMgr.FinishOperation(ctx)

	if n := len(op.failures); n > 0 {
		return errors.Errorf("%d of %d inputs failed: %w", n, len(files), op.failures[0])
	}
	return nil
}

func (op *ExpandOperation) fail(err error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.failures = append(op.failures, err)
}

// 📄 fileOperation expands a single input
type fileOperation struct {
	parent       *ExpandOperation
	input        Input
	replacements []string
	expander     *expand.Expander
}

func (f *fileOperation) Execute(ctx context.Context) error {
	defer f.parent.StatusMgr.Advance(ctx)

	out, err := f.process(ctx)
	if err == nil {
		log.Ctx(ctx).LogOutputOperation(ctx, out)
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	out.IsFailed = true
	out.Status = status.StatusFailed.String()
	f.parent.StatusMgr.TrackFile(ctx, out.Path, status.FileInfo{
		Path:   out.Path,
		Status: status.StatusFailed,
		Error:  err,
	})
	log.Ctx(ctx).LogOutputOperation(ctx, out)
	f.parent.logger(ctx).Error().Err(err).Str("input", f.input).Msg("expanding input")
	f.parent.fail(err)
	return nil
}

func (f *fileOperation) process(ctx context.Context) (log.OutputOperation, error) {
	cfg := f.parent.Config
	name := f.input.Rel
	out := log.OutputOperation{Path: name}

	decoder, err := codec.ForFile(name)
	if err != nil {
		return out, errors.Errorf("%s: %w", name, err)
	}
	encoder, err := codec.Resolve(cfg.Output.Format, name)
	if err != nil {
		return out, errors.Errorf("%s: %w", name, err)
	}
	encoder = codec.WithDelimiter(encoder, cfg.DelimiterRune())

	out.Path = OutputName(name, cfg.Output.Suffix, encoder.Extension())
	out.Format = encoder.Name()

	rc, err := f.parent.Opener.Open(ctx, f.input.URI)
	if err != nil {
		return out, errors.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	tbl, err := decoder.Decode(ctx, rc)
	if err != nil {
		return out, errors.Errorf("decoding %s: %w", name, err)
	}

	res := f.expander.Expand(tbl, cfg.Keyword, f.replacements)

	var buf bytes.Buffer
	if err := encoder.Encode(ctx, &buf, res.Table); err != nil {
		return out, errors.Errorf("encoding %s: %w", out.Path, err)
	}

	info, err := f.parent.StatusMgr.WriteOutput(ctx, out.Path, buf.Bytes())
	if err != nil {
		return out, errors.Errorf("writing %s: %w", out.Path, err)
	}

	out.Status = info.Status.String()
	out.IsNew = info.Status == status.StatusNew
	out.IsModified = info.Status == status.StatusModified
	out.Rows = len(res.Table)
	out.Substitutions = res.Substitutions
	return out, nil
}

// OutputName replaces the extension of name with suffix followed by ext.
// Directories in name are kept.
func OutputName(name, suffix, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + suffix + ext
}

// checkOutputs fails when two inputs would write the same output file.
// Inputs without a codec are left for the file operation to report.
func checkOutputs(cfg *config.Config, inputs []Input) error {
	owners := make(map[string]string, len(inputs))
	for _, in := range inputs {
		c, err := codec.Resolve(cfg.Output.Format, in.Rel)
		if err != nil {
			continue
		}
		out := OutputName(in.Rel, cfg.Output.Suffix, c.Extension())
		if prev, ok := owners[out]; ok {
			return errors.Errorf("inputs %s and %s both write %s", prev, in.URI, out)
		}
		owners[out] = in.URI
	}
	return nil
}

// 📚 ResolveReplacements loads the configured replacement list and returns it
// with a display name for the list
func ResolveReplacements(ctx context.Context, cfg *config.Config, opener Opener) ([]string, string, error) {
	src := cfg.Replacements
	switch src.Kind() {
	case "builtin":
		list, err := locality.Lookup(src.Builtin)
		if err != nil {
			return nil, "", err
		}
		return list, src.Builtin, nil
	case "file":
		if opener == nil {
			opener = OpenerFunc(source.Open)
		}
		uri := cfg.ResolvePath(src.File)
		rc, err := opener.Open(ctx, uri)
		if err != nil {
			return nil, "", errors.Errorf("opening list %s: %w", src.File, err)
		}
		defer rc.Close()
		list, err := locality.ParseList(rc)
		if err != nil {
			return nil, "", errors.Errorf("parsing list %s: %w", src.File, err)
		}
		return list, source.BaseName(src.File), nil
	case "values":
		return locality.Dedupe(src.Values), "values", nil
	}
	return nil, "", errors.Errorf("no replacement source configured")
}

// 📥 Input is one template to expand
type Input struct {
	URI string // Path or source uri to read
	Rel string // Name of the output relative to the output dir, before suffix
}

// 🔍 ResolveInputs expands local glob patterns relative to the config file.
// Glob matches keep their path below the pattern base so that templates with
// the same name in different folders write different outputs. Remote uris
// pass through. Duplicates keep their first position.
func ResolveInputs(cfg *config.Config) ([]Input, error) {
	seen := make(map[string]struct{})
	var out []Input
	add := func(uri, rel string) {
		if _, ok := seen[uri]; ok {
			return
		}
		seen[uri] = struct{}{}
		out = append(out, Input{URI: uri, Rel: rel})
	}

	for _, input := range cfg.Inputs {
		if source.IsRemote(input) {
			add(input, source.BaseName(input))
			continue
		}

		p := cfg.ResolvePath(input)
		if !hasMeta(p) {
			add(p, filepath.Base(p))
			continue
		}

		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no inputs match %q", input)
		}

		base, _ := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(p)))
		base = filepath.FromSlash(base)
		for _, m := range matches {
			rel, err := filepath.Rel(base, m)
			if err != nil || strings.HasPrefix(rel, "..") {
				rel = filepath.Base(m)
			}
			add(m, rel)
		}
	}

	return out, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
