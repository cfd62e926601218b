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

package operation

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/source"
	"github.com/walteh/csvexpand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 📥 Opener opens inputs and list files by uri
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(ctx context.Context, uri string) (io.ReadCloser, error)

func (f OpenerFunc) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return f(ctx, uri)
}

// 🔧 Options contains the dependencies of an operation
type Options struct {
	// Config is the expansion job
	Config *config.Config
	// StatusMgr writes outputs and tracks their status
	StatusMgr *status.Manager
	// Opener reads inputs; defaults to the registered sources
	Opener Opener
	// Logger is used for debug output; defaults to the context logger
	Logger *zerolog.Logger
}

// 🏗️ BaseOperation holds the validated options shared by operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation validates opts and fills in defaults
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.StatusMgr == nil {
		return BaseOperation{}, errors.Errorf("status manager is required")
	}
	if opts.Opener == nil {
		opts.Opener = OpenerFunc(source.Open)
	}
	return BaseOperation{Options: opts}, nil
}

func (op *BaseOperation) logger(ctx context.Context) *zerolog.Logger {
	if op.Logger != nil {
		return op.Logger
	}
	return zerolog.Ctx(ctx)
}
