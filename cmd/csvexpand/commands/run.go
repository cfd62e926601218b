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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var wf writeFlags
	var async bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the job file",
		Long: `Run loads the job file (--config) and expands every input it lists.
It will:
1. Resolve the replacement list (built-in, file or inline values)
2. Expand input globs relative to the job file
3. Expand each template and write <name><suffix>.<ext> to the output dir
4. Report which outputs are new, modified or unchanged`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			cfg, err := config.Load(ctx, o.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("async") {
				cfg.Async = async
			}

			o.UserLogger.LogStateChange(fmt.Sprintf("Expanding %s", cfg))
			return runJob(ctx, o, cfg, wf)
		},
	}

	wf.register(cmd)
	cmd.Flags().BoolVar(&async, "async", false, "expand inputs concurrently")

	return cmd
}
