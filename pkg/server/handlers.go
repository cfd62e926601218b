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

package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/expand"
	"github.com/walteh/csvexpand/pkg/locality"
	"gitlab.com/tozd/go/errors"
)

// ListInfo describes a built-in replacement list
type ListInfo struct {
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Values []string `json:"values,omitempty"`
}

func builtinLists(withValues bool) []ListInfo {
	names := locality.Names()
	out := make([]ListInfo, 0, len(names))
	for _, name := range names {
		values, _ := locality.Builtin(name)
		info := ListInfo{Name: name, Size: len(values)}
		if withValues {
			info.Values = values
		}
		out = append(out, info)
	}
	return out
}

var contentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"json": "application/json; charset=utf-8",
}

func (s *Server) handleIndex() gin.HandlerFunc {
	accept := make([]string, 0)
	for _, name := range codec.Names() {
		c, _ := codec.ByName(name)
		accept = append(accept, c.Extension())
	}

	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Title":   "Generador de Contenido SEO por Localidades",
			"Keyword": s.opts.Keyword,
			"Lists":   builtinLists(false),
			"Formats": codec.Names(),
			"Accept":  strings.Join(accept, ","),
		})
	}
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleLists() gin.HandlerFunc {
	return func(c *gin.Context) {
		withValues := c.Query("values") == "true"
		c.JSON(http.StatusOK, gin.H{"lists": builtinLists(withValues)})
	}
}

// badRequest marks errors caused by the upload rather than the server
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

// 📥 handleExpand reads a multipart upload, expands it and responds with the
// encoded table as an attachment
func (s *Server) handleExpand() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := zerolog.Ctx(ctx)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUpload)

		body, encoder, res, err := s.expandUpload(c)
		if err != nil {
			var br *badRequest
			var de *codec.DecodeError
			switch {
			case errors.As(err, &br), errors.As(err, &de):
				logger.Debug().Err(err).Msg("rejecting upload")
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Error().Err(err).Msg("expanding upload")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not expand template"})
			}
			return
		}

		filename := DownloadName + encoder.Extension()
		logger.Info().
			Str("download", filename).
			Int("rows", len(res.Table)).
			Int("substitutions", res.Substitutions).
			Msg("expanded upload")

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		c.Header("X-Csvexpand-Rows", strconv.Itoa(len(res.Table)))
		c.Header("X-Csvexpand-Substitutions", strconv.Itoa(res.Substitutions))
		c.Data(http.StatusOK, contentTypes[encoder.Name()], body)
	}
}

func (s *Server) expandUpload(c *gin.Context) ([]byte, codec.Codec, *expand.Result, error) {
	ctx := c.Request.Context()

	keyword := c.PostForm("keyword")
	if strings.TrimSpace(keyword) == "" {
		return nil, nil, nil, invalid("keyword is required")
	}

	fh, err := c.FormFile("template")
	if err != nil {
		return nil, nil, nil, invalid("template file is required")
	}

	decoder, err := codec.ForFile(fh.Filename)
	if err != nil {
		return nil, nil, nil, invalid("unsupported template %q", fh.Filename)
	}
	encoder, err := codec.Resolve(c.PostForm("format"), fh.Filename)
	if err != nil {
		return nil, nil, nil, invalid("unsupported format %q", c.PostForm("format"))
	}

	replacements, err := s.uploadReplacements(c)
	if err != nil {
		return nil, nil, nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, nil, errors.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	tbl, err := decoder.Decode(ctx, f)
	if err != nil {
		return nil, nil, nil, err
	}

	replaceAll := c.PostForm("replace_all") == "true"
	res := expand.New(expand.WithReplaceAll(replaceAll)).Expand(tbl, keyword, replacements)

	var buf bytes.Buffer
	if err := encoder.Encode(ctx, &buf, res.Table); err != nil {
		return nil, nil, nil, errors.Errorf("encoding result: %w", err)
	}

	return buf.Bytes(), encoder, res, nil
}

// uploadReplacements prefers an uploaded list file over the named built-in list
func (s *Server) uploadReplacements(c *gin.Context) ([]string, error) {
	if fh, err := c.FormFile("list"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, errors.Errorf("opening list upload: %w", err)
		}
		defer f.Close()

		list, err := locality.ParseList(f)
		if err != nil {
			return nil, invalid("reading list %q: %v", fh.Filename, err)
		}
		if len(list) == 0 {
			return nil, invalid("list %q is empty", fh.Filename)
		}
		return list, nil
	}

	name := c.PostForm("builtin")
	if name == "" {
		name = locality.DefaultList
	}
	list, err := locality.Lookup(name)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	return list, nil
}
