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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Expressions may reference env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "csvexpand.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Keyword      string `hcl:"keyword"`
		Replacements struct {
			Builtin string   `hcl:"builtin,optional"`
			File    string   `hcl:"file,optional"`
			Values  []string `hcl:"values,optional"`
		} `hcl:"replacements,block"`
		Inputs []string `hcl:"inputs"`
		Output *struct {
			Dir       string `hcl:"dir,optional"`
			Suffix    string `hcl:"suffix,optional"`
			Format    string `hcl:"format,optional"`
			Delimiter string `hcl:"delimiter,optional"`
		} `hcl:"output,block"`
		ReplaceAll bool `hcl:"replace_all,optional"`
		Async      bool `hcl:"async,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Keyword: hclCfg.Keyword,
		Replacements: ReplacementSource{
			Builtin: hclCfg.Replacements.Builtin,
			File:    hclCfg.Replacements.File,
			Values:  hclCfg.Replacements.Values,
		},
		Inputs:     hclCfg.Inputs,
		ReplaceAll: hclCfg.ReplaceAll,
		Async:      hclCfg.Async,
	}

	if hclCfg.Output != nil {
		cfg.Output = OutputArgs{
			Dir:       hclCfg.Output.Dir,
			Suffix:    hclCfg.Output.Suffix,
			Format:    hclCfg.Output.Format,
			Delimiter: hclCfg.Output.Delimiter,
		}
	}

	return cfg, nil
}

// envObject exposes the process environment to HCL expressions
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
