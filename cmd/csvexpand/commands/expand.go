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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func NewExpandCmd(o *opts.RootOpts) *cobra.Command {
	var rf replacementFlags
	var wf writeFlags
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "expand <template>...",
		Short: "Expand templates without a job file",
		Example: `  csvexpand expand plantilla.csv --keyword Toledo
  csvexpand expand 'plantillas/**/*.csv' -k Toledo --list provincias.txt --out salida
  csvexpand expand github://acme/seo/plantilla.xlsx@main -k Toledo --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "expand").Logger().WithContext(ctx)

			cfg.Inputs = args
			cfg.Replacements = rf.source()
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid flags: %w", err)
			}

			return runJob(ctx, o, cfg, wf)
		},
	}

	cmd.Flags().StringVarP(&cfg.Keyword, "keyword", "k", "", "placeholder text to replace (required)")
	cmd.Flags().StringVarP(&cfg.Output.Dir, "out", "o", config.DefaultOutputDir, "output directory")
	cmd.Flags().StringVarP(&cfg.Output.Format, "format", "f", "", "output format (csv, xlsx, json); default keeps the input format")
	cmd.Flags().StringVar(&cfg.Output.Suffix, "suffix", config.DefaultSuffix, "appended to each output base name")
	cmd.Flags().StringVar(&cfg.Output.Delimiter, "delimiter", config.DefaultDelimiter, "csv output separator")
	cmd.Flags().BoolVar(&cfg.ReplaceAll, "replace-all", false, "replace every occurrence instead of the first")
	cmd.Flags().BoolVar(&cfg.Async, "async", false, "expand inputs concurrently")
	rf.register(cmd)
	wf.register(cmd)
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}
