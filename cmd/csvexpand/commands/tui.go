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
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/tui"
	"gitlab.com/tozd/go/errors"
)

func NewTUICmd(o *opts.RootOpts) *cobra.Command {
	var to tui.Options

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick a template and expand it interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p := tea.NewProgram(tui.InitialModel(ctx, to), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return errors.Errorf("running tui: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to.Dir, "dir", "", "directory to start browsing in (default current)")
	cmd.Flags().StringVarP(&to.Keyword, "keyword", "k", "Toledo", "prefilled keyword")
	cmd.Flags().StringVar(&to.Suffix, "suffix", config.DefaultSuffix, "appended to the output base name")
	cmd.Flags().BoolVar(&to.ReplaceAll, "replace-all", false, "replace every occurrence instead of the first")

	return cmd
}
