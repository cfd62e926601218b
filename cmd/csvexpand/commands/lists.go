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
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/locality"
	"gitlab.com/tozd/go/errors"
)

const listPreview = 4

func NewListsCmd(o *opts.RootOpts) *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the built-in replacement lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" {
				values, err := locality.Lookup(show)
				if err != nil {
					return err
				}
				for _, v := range values {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
				return nil
			}

			data := pterm.TableData{{"Name", "Size", "Values"}}
			for _, name := range locality.Names() {
				values, _ := locality.Builtin(name)
				sample := strings.Join(values, ", ")
				if len(values) > listPreview {
					sample = strings.Join(values[:listPreview], ", ") + ", ..."
				}
				data = append(data, []string{name, strconv.Itoa(len(values)), sample})
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "print every value of the named list, one per line")

	return cmd
}
