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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/expand"
	"github.com/walteh/csvexpand/pkg/operation"
	"github.com/walteh/csvexpand/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	var rf replacementFlags
	var keyword string
	var rows int
	var replaceAll bool

	cmd := &cobra.Command{
		Use:   "preview <template>",
		Short: "Print the first expanded rows as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := &config.Config{Keyword: keyword, Replacements: rf.source()}
			replacements, listName, err := operation.ResolveReplacements(ctx, cfg, nil)
			if err != nil {
				return errors.Errorf("resolving replacements: %w", err)
			}

			name := source.BaseName(args[0])
			c, err := codec.ForFile(name)
			if err != nil {
				return err
			}

			rc, err := source.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			tbl, err := c.Decode(ctx, rc)
			if err != nil {
				return errors.Errorf("decoding %s: %w", name, err)
			}

			res := expand.New(expand.WithReplaceAll(replaceAll)).Expand(tbl, keyword, replacements)

			limit := len(res.Table)
			if rows >= 0 && rows+1 < limit {
				limit = rows + 1
			}
			data := res.Table[:limit].Strings()
			if len(data) == 0 {
				o.UserLogger.LogValidation(false, fmt.Sprintf("%s is empty", name), nil)
				return nil
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows • %s (%d) • %d cells changed\n",
				limit, len(res.Table), listName, len(replacements), res.Substitutions)

			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "placeholder text to replace (required)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "data rows to show; negative shows all")
	cmd.Flags().BoolVar(&replaceAll, "replace-all", false, "replace every occurrence instead of the first")
	rf.register(cmd)
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}
