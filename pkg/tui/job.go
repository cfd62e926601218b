package tui

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/config"
	"github.com/walteh/csvexpand/pkg/expand"
	"github.com/walteh/csvexpand/pkg/locality"
	"github.com/walteh/csvexpand/pkg/operation"
	"github.com/walteh/csvexpand/pkg/source"
	"github.com/walteh/csvexpand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Job is one interactive expansion
type Job struct {
	Template   string // template path or uri
	Keyword    string
	ListFile   string // empty uses the built-in list
	OutputDir  string // empty writes next to a local template
	Suffix     string
	ReplaceAll bool
}

// Result summarises a finished job
type Result struct {
	Input        string
	Output       string
	Status       status.FileStatus
	List         string
	Replacements int
	Rows         int
}

// RunJob expands the template and writes the output. Progress values in
// [0, 1] are sent on progress as data rows are expanded; the channel is not
// closed.
func RunJob(ctx context.Context, job Job, progress chan<- float64) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if job.Keyword == "" {
		return nil, errors.Errorf("keyword is required")
	}
	if job.Suffix == "" {
		job.Suffix = config.DefaultSuffix
	}

	replacements, listName, err := loadList(ctx, job.ListFile)
	if err != nil {
		return nil, err
	}

	name := source.BaseName(job.Template)
	c, err := codec.ForFile(name)
	if err != nil {
		return nil, errors.Errorf("%s: %w", name, err)
	}

	rc, err := source.Open(ctx, job.Template)
	if err != nil {
		return nil, errors.Errorf("opening template: %w", err)
	}
	defer rc.Close()

	tbl, err := c.Decode(ctx, rc)
	if err != nil {
		return nil, errors.Errorf("decoding template: %w", err)
	}

	dir := job.OutputDir
	if dir == "" {
		dir = "."
		if !source.IsRemote(job.Template) {
			dir = filepath.Dir(job.Template)
		}
	}
	mgr := status.New(dir, logger)

	mgr.StartOperation(ctx, len(tbl.Data()))
	expander := expand.New(
		expand.WithReplaceAll(job.ReplaceAll),
		expand.WithProgress(func(done, total int) {
			mgr.UpdateProgress(ctx, done)
			send(progress, float64(done)/float64(total))
		}),
	)
	res := expander.Expand(tbl, job.Keyword, replacements)

	var buf bytes.Buffer
	if err := c.Encode(ctx, &buf, res.Table); err != nil {
		return nil, errors.Errorf("encoding output: %w", err)
	}

	outName := operation.OutputName(name, job.Suffix, c.Extension())
	info, err := mgr.WriteOutput(ctx, outName, buf.Bytes())
	if err != nil {
		return nil, errors.Errorf("writing output: %w", err)
	}
	mgr.FinishOperation(ctx)
	send(progress, 1)

	return &Result{
		Input:        job.Template,
		Output:       filepath.Join(dir, outName),
		Status:       info.Status,
		List:         listName,
		Replacements: len(replacements),
		Rows:         len(res.Table),
	}, nil
}

func loadList(ctx context.Context, file string) ([]string, string, error) {
	if file == "" {
		list, err := locality.Lookup(locality.DefaultList)
		return list, locality.DefaultList, err
	}

	rc, err := source.Open(ctx, file)
	if err != nil {
		return nil, "", errors.Errorf("opening list: %w", err)
	}
	defer rc.Close()

	list, err := locality.ParseList(rc)
	if err != nil {
		return nil, "", err
	}
	if len(list) == 0 {
		return nil, "", errors.Errorf("list %s is empty", file)
	}
	return list, source.BaseName(file), nil
}

func send(ch chan<- float64, v float64) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
