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

// Package server is the browser front end: upload a template, pick a list and
// download the expanded table.
package server

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultAddr is used when neither a flag nor CSVEXPAND_ADDR is set
	DefaultAddr = ":8080"

	// AddrEnv names the environment variable holding the listen address
	AddrEnv = "CSVEXPAND_ADDR"

	// DefaultMaxUpload caps uploaded templates and lists
	DefaultMaxUpload = 50 << 20

	// DownloadName is the attachment name before the format extension
	DownloadName = "contenido_provincias"

	shutdownTimeout = 5 * time.Second
)

//go:embed templates/*.html
var templateFiles embed.FS

// 🔧 Options configures a Server
type Options struct {
	// MaxUpload is the largest accepted upload in bytes
	MaxUpload int64
	// Keyword prefills the form
	Keyword string
}

// 🌐 Server holds the gin router and its settings
type Server struct {
	router *gin.Engine
	logger zerolog.Logger
	opts   Options
}

// 🏭 New creates a server with its routes registered
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	if opts.Keyword == "" {
		opts.Keyword = "Toledo"
	}

	s := &Server{
		router: gin.New(),
		logger: zerolog.Ctx(ctx).With().Str("component", "server").Logger(),
		opts:   opts,
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Errorf("parsing templates: %w", err)
	}
	s.router.SetHTMLTemplate(tmpl)
	s.router.MaxMultipartMemory = opts.MaxUpload

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex())
	s.router.GET("/healthz", s.handleHealth())

	api := s.router.Group("/api")
	api.GET("/lists", s.handleLists())
	api.POST("/expand", s.handleExpand())
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// 🏃 Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestLogger attaches the logger to each request context and logs the result
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// 🔑 LoadEnv loads variables from the given .env files. Missing files are
// ignored; variables already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Addr picks the listen address: the flag value, then CSVEXPAND_ADDR, then DefaultAddr
func Addr(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(AddrEnv); env != "" {
		return env
	}
	return DefaultAddr
}
