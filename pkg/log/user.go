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

package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 👤 UserLogger prints prefixed messages meant for people rather than log files
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// NewUserLogger creates a user logger on stdout mirroring to the context logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerWithWriter(ctx, os.Stdout)
}

// NewUserLoggerWithWriter creates a user logger printing to w
func NewUserLoggerWithWriter(ctx context.Context, w io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: w,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📊 JobSummary counts outputs by status
type JobSummary struct {
	New       int
	Modified  int
	Unchanged int
	Failed    int
	DryRun    bool
}

func (s JobSummary) String() string {
	msg := fmt.Sprintf("%d new, %d modified, %d unchanged", s.New, s.Modified, s.Unchanged)
	if s.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.DryRun {
		msg += " (dry run, nothing written)"
	}
	return msg
}

// LogSummary prints the result of an expansion job
func (u *UserLogger) LogSummary(s JobSummary) {
	if s.Failed > 0 {
		u.printer(pterm.Warning, "⚠️").Println(s.String())
		u.log.Warn().Int("failed", s.Failed).Msg(s.String())
		return
	}
	u.printer(pterm.Success, "✅").Println(s.String())
	u.log.Info().Msg(s.String())
}

// LogStateChange prints a progress note
func (u *UserLogger) LogStateChange(description string) {
	printer := u.printer(pterm.Info, "📦")
	printer.Println(description)
	u.log.Info().Msg(description)
}

// LogValidation prints a success, a warning when err is nil, or an error
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}
