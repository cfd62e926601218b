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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/locality"
	"github.com/walteh/csvexpand/pkg/log"
	"github.com/walteh/csvexpand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockOpener is a mock implementation of Opener
type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	result := m.Called(ctx, uri)
	rc, _ := result.Get(0).(io.ReadCloser)
	return rc, result.Error(1)
}

const guideCSV = "Permalink,Title\n/toledo-guia,Guía de Toledo\n"

// 🧪 createTestEnv creates a config, a status manager and a context carrying
// a console logger that writes to the returned buffer
func createTestEnv(t *testing.T, inputs ...string) (context.Context, *config.Config, *status.Manager, *bytes.Buffer) {
	t.Helper()

	outDir := filepath.Join(t.TempDir(), "out")

	cfg := &config.Config{
		Keyword:      "Toledo",
		Replacements: config.ReplacementSource{Values: []string{"Madrid", "Lugo"}},
		Inputs:       inputs,
		Output:       config.OutputArgs{Dir: outDir},
	}
	require.NoError(t, cfg.Validate())

	zlog := zerolog.New(zerolog.NewTestWriter(t))
	console := &bytes.Buffer{}
	ctx := zlog.WithContext(context.Background())
	ctx = log.NewContext(ctx, log.NewWithLogger(console, zlog))

	return ctx, cfg, status.New(outDir, &zlog), console
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestNewExpandOperationValidation(t *testing.T) {
	_, cfg, mgr, _ := createTestEnv(t, "plantilla.csv")

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "missing_config", opts: Options{StatusMgr: mgr}, wantErr: "config is required"},
		{name: "missing_status", opts: Options{Config: cfg}, wantErr: "status manager is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExpandOperation(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("default_opener", func(t *testing.T) {
		op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
		require.NoError(t, err)
		assert.NotNil(t, op.Opener)
	})
}

func TestExpandOperationWritesOutputs(t *testing.T) {
	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}
		t.Run(name, func(t *testing.T) {
			srcDir := t.TempDir()
			writeFile(t, srcDir, "guia.csv", guideCSV)
			writeFile(t, srcDir, "hoteles.csv", "Permalink;Title\n/hoteles-toledo;Hoteles en Toledo\n")

			ctx, cfg, mgr, console := createTestEnv(t, filepath.Join(srcDir, "*.csv"))
			cfg.Async = async

			op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
			require.NoError(t, err)
			require.NoError(t, op.Execute(ctx))

			guia, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "guia_localidades.csv"))
			require.NoError(t, err)
			assert.Equal(t, "Permalink,Title\n/toledo-guia,Guía de Toledo\n/madrid-guia,Guía de Madrid\n/lugo-guia,Guía de Lugo\n", string(guia))

			hoteles, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "hoteles_localidades.csv"))
			require.NoError(t, err)
			assert.Equal(t, "Permalink,Title\n/hoteles-toledo,Hoteles en Toledo\n/hoteles-madrid,Hoteles en Madrid\n/hoteles-lugo,Hoteles en Lugo\n", string(hoteles),
				"semicolon input should be written with the configured delimiter")

			assert.Equal(t, map[status.FileStatus]int{status.StatusNew: 2}, mgr.Summary())
			assert.Contains(t, console.String(), "guia_localidades.csv")
			assert.Contains(t, console.String(), "Toledo")
		})
	}
}

func TestExpandOperationRerunIsUnchanged(t *testing.T) {
	srcDir := t.TempDir()
	input := writeFile(t, srcDir, "guia.csv", guideCSV)

	ctx, cfg, mgr, _ := createTestEnv(t, input)

	op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, map[status.FileStatus]int{status.StatusUnchanged: 1}, mgr.Summary())
}

func TestExpandOperationFormatConversion(t *testing.T) {
	srcDir := t.TempDir()
	input := writeFile(t, srcDir, "guia.csv", guideCSV)

	ctx, cfg, mgr, _ := createTestEnv(t, input)
	cfg.Output.Format = "json"

	op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	f, err := os.Open(filepath.Join(cfg.Output.Dir, "guia_localidades.json"))
	require.NoError(t, err)
	defer f.Close()

	tbl, err := (&codec.JSON{}).Decode(ctx, f)
	require.NoError(t, err)
	require.Len(t, tbl, 4)
	assert.Equal(t, []string{"/madrid-guia", "Guía de Madrid"}, tbl[2].Strings())
}

func TestExpandOperationPartialFailure(t *testing.T) {
	srcDir := t.TempDir()
	good := writeFile(t, srcDir, "guia.csv", guideCSV)
	missing := filepath.Join(srcDir, "missing.csv")

	ctx, cfg, mgr, console := createTestEnv(t, missing, good)

	op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 inputs failed")

	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "guia_localidades.csv"))
	assert.NoError(t, err, "healthy inputs should still be written")
	assert.Contains(t, console.String(), "missing_localidades.csv")
	assert.Equal(t, map[status.FileStatus]int{status.StatusNew: 1, status.StatusFailed: 1}, mgr.Summary())
}

func TestExpandOperationUsesOpener(t *testing.T) {
	ctx, cfg, mgr, _ := createTestEnv(t, "github://walteh/plantillas/guia.csv@main")

	opener := &MockOpener{}
	opener.On("Open", mock.Anything, "github://walteh/plantillas/guia.csv@main").
		Return(io.NopCloser(strings.NewReader(guideCSV)), nil).Once()

	op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr, Opener: opener})
	require.NoError(t, err)
	require.NoError(t, op.Execute(ctx))

	opener.AssertExpectations(t)
	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "guia_localidades.csv"))
	assert.NoError(t, err)
}

func TestResolveReplacements(t *testing.T) {
	ctx := context.Background()

	t.Run("builtin", func(t *testing.T) {
		cfg := &config.Config{Replacements: config.ReplacementSource{Builtin: locality.DefaultList}}
		list, name, err := ResolveReplacements(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Len(t, list, 52)
		assert.Equal(t, locality.DefaultList, name)
	})

	t.Run("unknown_builtin", func(t *testing.T) {
		cfg := &config.Config{Replacements: config.ReplacementSource{Builtin: "fr-regions"}}
		_, _, err := ResolveReplacements(ctx, cfg, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, locality.ErrUnknownList))
	})

	t.Run("values_deduped", func(t *testing.T) {
		cfg := &config.Config{Replacements: config.ReplacementSource{Values: []string{"Lugo", "Soria", "Lugo"}}}
		list, name, err := ResolveReplacements(ctx, cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lugo", "Soria"}, list)
		assert.Equal(t, "values", name)
	})

	t.Run("file", func(t *testing.T) {
		opener := &MockOpener{}
		opener.On("Open", ctx, "https://example.com/listas/norte.txt").
			Return(io.NopCloser(strings.NewReader("Lugo\n\n Ourense \nLugo\n")), nil)

		cfg := &config.Config{Replacements: config.ReplacementSource{File: "https://example.com/listas/norte.txt"}}
		list, name, err := ResolveReplacements(ctx, cfg, opener)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lugo", "Ourense"}, list)
		assert.Equal(t, "norte.txt", name)
		opener.AssertExpectations(t)
	})

	t.Run("file_open_error", func(t *testing.T) {
		opener := &MockOpener{}
		opener.On("Open", ctx, "lista.txt").Return(nil, errors.New("boom"))

		cfg := &config.Config{Replacements: config.ReplacementSource{File: "lista.txt"}}
		_, _, err := ResolveReplacements(ctx, cfg, opener)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening list lista.txt: boom")
	})

	t.Run("none", func(t *testing.T) {
		_, _, err := ResolveReplacements(ctx, &config.Config{}, nil)
		assert.Error(t, err)
	})
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", guideCSV)
	b := writeFile(t, dir, "b.csv", guideCSV)
	writeFile(t, dir, "c.xlsx", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "norte"), 0o755))
	nested := writeFile(t, dir, filepath.Join("norte", "a.csv"), guideCSV)

	tests := []struct {
		name    string
		inputs  []string
		want    []Input
		wantErr string
	}{
		{
			name:   "glob",
			inputs: []string{filepath.Join(dir, "*.csv")},
			want:   []Input{{URI: a, Rel: "a.csv"}, {URI: b, Rel: "b.csv"}},
		},
		{
			name:   "doublestar_keeps_subdirs",
			inputs: []string{filepath.Join(dir, "**", "a.csv")},
			want:   []Input{{URI: a, Rel: "a.csv"}, {URI: nested, Rel: filepath.Join("norte", "a.csv")}},
		},
		{
			name:   "duplicates_keep_first_position",
			inputs: []string{b, filepath.Join(dir, "*.csv")},
			want:   []Input{{URI: b, Rel: "b.csv"}, {URI: a, Rel: "a.csv"}},
		},
		{
			name:   "remote_passthrough",
			inputs: []string{"github://walteh/plantillas/guia.csv@main", a},
			want:   []Input{{URI: "github://walteh/plantillas/guia.csv@main", Rel: "guia.csv"}, {URI: a, Rel: "a.csv"}},
		},
		{
			name:   "plain_path_not_checked",
			inputs: []string{filepath.Join(dir, "later.csv")},
			want:   []Input{{URI: filepath.Join(dir, "later.csv"), Rel: "later.csv"}},
		},
		{
			name:    "no_matches",
			inputs:  []string{filepath.Join(dir, "*.json")},
			wantErr: "no inputs match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInputs(&config.Config{Inputs: tt.inputs})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
			if tt.name == "duplicates_keep_first_position" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExpandOperationSameNameInSubdirs(t *testing.T) {
	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}
		t.Run(name, func(t *testing.T) {
			srcDir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "a"), 0o755))
			require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "b"), 0o755))
			writeFile(t, srcDir, filepath.Join("a", "guia.csv"), "Permalink\n/toledo-a\n")
			writeFile(t, srcDir, filepath.Join("b", "guia.csv"), "Permalink\n/toledo-b\n")

			ctx, cfg, mgr, _ := createTestEnv(t, filepath.Join(srcDir, "**", "*.csv"))
			cfg.Async = async

			op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
			require.NoError(t, err)
			require.NoError(t, op.Execute(ctx))

			outA, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "a", "guia_localidades.csv"))
			require.NoError(t, err)
			assert.Contains(t, string(outA), "/madrid-a")

			outB, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "b", "guia_localidades.csv"))
			require.NoError(t, err)
			assert.Contains(t, string(outB), "/madrid-b")

			assert.Equal(t, map[status.FileStatus]int{status.StatusNew: 2}, mgr.Summary())
		})
	}
}

func TestExpandOperationRejectsOutputCollision(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	a := writeFile(t, dirA, "guia.csv", guideCSV)
	b := writeFile(t, dirB, "guia.csv", guideCSV)

	ctx, cfg, mgr, _ := createTestEnv(t, a, b)

	op, err := NewExpandOperation(Options{Config: cfg, StatusMgr: mgr})
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write guia_localidades.csv")

	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "guia_localidades.csv"))
	assert.True(t, os.IsNotExist(err), "nothing should be written when outputs collide")
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		suffix string
		ext    string
		want   string
	}{
		{name: "same_format", file: "plantilla.csv", suffix: "_localidades", ext: ".csv", want: "plantilla_localidades.csv"},
		{name: "converted", file: "plantilla.xlsx", suffix: "_localidades", ext: ".json", want: "plantilla_localidades.json"},
		{name: "no_extension", file: "plantilla", suffix: "_x", ext: ".csv", want: "plantilla_x.csv"},
		{name: "dotted_name", file: "guia.v2.csv", suffix: "_localidades", ext: ".csv", want: "guia.v2_localidades.csv"},
		{name: "keeps_dir", file: filepath.Join("norte", "guia.csv"), suffix: "_localidades", ext: ".csv", want: filepath.Join("norte", "guia_localidades.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.file, tt.suffix, tt.ext))
		})
	}
}
