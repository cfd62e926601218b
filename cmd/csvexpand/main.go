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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/commands"
	"github.com/walteh/csvexpand/pkg/log"

	_ "github.com/walteh/csvexpand/pkg/source/github"
)

func main() {
	// Setup logging
	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	ctx := logger.WithContext(context.Background())

	// Create user logger
	opts := newRootOpts(ctx)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "csvexpand",
		Short: "Expand a table template once per locality",
		Long: `csvexpand takes a table whose rows mention a placeholder keyword (for example
a province name in the text and in the URL slug of the first column) and
writes every row once, followed by one copy per value of a replacement list
with the keyword substituted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), opts.Debug))
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd, opts)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRunCmd(opts),
		commands.NewExpandCmd(opts),
		commands.NewPreviewCmd(opts),
		commands.NewListsCmd(opts),
		commands.NewSlugCmd(opts),
		commands.NewServeCmd(opts),
		commands.NewTUICmd(opts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		opts.UserLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}

// setupLogging raises the context logger to debug and attaches the console logger
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)

	return log.NewContext(ctx, log.NewWithLogger(os.Stdout, logger))
}
