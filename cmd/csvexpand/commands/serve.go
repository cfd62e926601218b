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
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/walteh/csvexpand/cmd/csvexpand/opts"
	"github.com/walteh/csvexpand/pkg/server"
	"gitlab.com/tozd/go/errors"
)

func NewServeCmd(o *opts.RootOpts) *cobra.Command {
	var addr, envFile, keyword string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form and the expand API",
		Long: `Serve starts the web front end. The listen address comes from --addr, then
CSVEXPAND_ADDR (optionally set in a .env file), then ` + server.DefaultAddr + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.LoadEnv(envFile); err != nil {
				return err
			}
			if !o.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, server.Options{Keyword: keyword})
			if err != nil {
				return errors.Errorf("creating server: %w", err)
			}

			listen := server.Addr(addr)
			o.UserLogger.LogStateChange("Listening on " + listen)
			return srv.Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "Toledo", "keyword prefilled in the form")

	return cmd
}
