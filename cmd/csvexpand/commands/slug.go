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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/slug"
)

func NewSlugCmd(o *opts.RootOpts) *cobra.Command {
	var join bool

	cmd := &cobra.Command{
		Use:   "slug <text>...",
		Short: "Print the URL slug form of each argument",
		Example: `  csvexpand slug "Santa Cruz de Tenerife" Ávila
  csvexpand slug --join A Coruña`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if join {
				args = []string{strings.Join(args, " ")}
			}
			for _, arg := range args {
				fmt.Fprintln(cmd.OutOrStdout(), slug.Normalize(arg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&join, "join", false, "treat all arguments as one text")

	return cmd
}
