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
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/locality"
	"github.com/walteh/csvexpand/pkg/log"
	"github.com/walteh/csvexpand/pkg/operation"
	"github.com/walteh/csvexpand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// replacementFlags selects the replacement list on the command line
type replacementFlags struct {
	builtin string
	list    string
	values  []string
}

func (f *replacementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.builtin, "builtin", "b", "", "built-in list name (default "+locality.DefaultList+")")
	cmd.Flags().StringVarP(&f.list, "list", "l", "", "list file or uri, one value per line")
	cmd.Flags().StringSliceVar(&f.values, "values", nil, "inline replacement values")
}

// source falls back to the default built-in list when nothing is set
func (f *replacementFlags) source() config.ReplacementSource {
	src := config.ReplacementSource{
		Builtin: f.builtin,
		File:    f.list,
		Values:  f.values,
	}
	if src.Kind() == "" {
		src.Builtin = locality.DefaultList
	}
	return src
}

// writeFlags control how outputs are written
type writeFlags struct {
	dryRun bool
	backup bool
}

func (f *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report what would be written without writing")
	cmd.Flags().BoolVar(&f.backup, "backup", false, "keep a .bak copy of outputs that change")
}

// runJob expands every input of cfg and prints a summary
func runJob(ctx context.Context, o *opts.RootOpts, cfg *config.Config, wf writeFlags) error {
	logger := zerolog.Ctx(ctx)

	outDir := cfg.ResolvePath(cfg.Output.Dir)
	mgr := status.New(outDir, logger,
		status.WithDryRun(wf.dryRun),
		status.WithBackup(wf.backup),
	)

	op, err := operation.NewExpandOperation(operation.Options{
		Config:    cfg,
		StatusMgr: mgr,
		Logger:    logger,
	})
	if err != nil {
		return errors.Errorf("creating expand operation: %w", err)
	}

	console := log.Ctx(ctx)
	console.Header(fmt.Sprintf("%s x %d inputs", cfg.Keyword, len(cfg.Inputs)))

	runErr := operation.NewRunner(logger, false).Run(ctx, op)

	console.LogNewline()

	files, err := mgr.ListFiles(ctx)
	if err != nil {
		return errors.Errorf("listing outputs: %w", err)
	}
	for _, f := range files {
		if f.Status == status.StatusFailed {
			o.UserLogger.LogValidation(false, f.Path, f.Error)
		}
	}

	counts := mgr.Summary()
	o.UserLogger.LogSummary(log.JobSummary{
		New:       counts[status.StatusNew],
		Modified:  counts[status.StatusModified],
		Unchanged: counts[status.StatusUnchanged],
		Failed:    counts[status.StatusFailed],
		DryRun:    wf.dryRun,
	})

	if runErr != nil {
		return errors.Errorf("expanding: %w", runErr)
	}
	return nil
}
