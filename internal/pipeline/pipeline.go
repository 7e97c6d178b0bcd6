// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the load, classify, and write stages in order.
// The first failure stops the run; the report is written only after all
// three inputs have loaded and the classification is complete.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/techlife/internal/archive"
	"github.com/pdiddy/techlife/internal/lifecycle"
	"github.com/pdiddy/techlife/internal/metrics"
	"github.com/pdiddy/techlife/internal/report"
	"github.com/pdiddy/techlife/internal/source"
	"github.com/pdiddy/techlife/pkg/types"
)

// Input names, as used in LoadError and the input_rows metric.
const (
	InputKeywords      = "keywords"
	InputPromisingTech = "promising_tech"
	InputExpenditure   = "expenditure"
)

// LoadError names the input a load failure came from.
type LoadError struct {
	Input string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Input, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Tables holds the three loaded inputs.
type Tables struct {
	Keywords      types.KeywordTable
	PromisingTech types.PromisingTechTable
	Expenditure   types.ExpenditureTable

	// Rows counts data rows read per source.
	Rows map[string]int
}

// Result summarizes a successful run.
type Result struct {
	Document   types.OutputDocument
	Tables     Tables
	OutputPath string

	// RunID is set when the run was archived.
	RunID string
}

// Pipeline wires configuration to the stage implementations.
type Pipeline struct {
	cfg    types.PipelineConfig
	logger *zap.Logger
	out    io.Writer
	now    func() time.Time
}

// New returns a pipeline for cfg. User-facing messages go to out.
func New(cfg types.PipelineConfig, logger *zap.Logger, out io.Writer) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{cfg: cfg, logger: logger, out: out, now: time.Now}
}

// Run executes the pipeline. On failure the returned error matches one of
// the source or report sentinel errors and nothing has been written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tables, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}

	doc := lifecycle.Build(tables.Keywords, lifecycle.FromConfig(p.cfg.Thresholds), p.cfg.Output.StageLabels)
	counts := lifecycle.Counts(doc)
	p.logger.Info("classified technologies",
		zap.Int("total", len(doc.TechLifeCycle)),
		zap.Int("mature", counts[types.StageMature]),
		zap.Int("growth", counts[types.StageGrowth]),
		zap.Int("early", counts[types.StageEarly]))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := p.cfg.Output
	if err := report.Write(out.Path, out.Format, doc); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "%s 파일이 성공적으로 생성되었습니다.\n", out.Path)
	p.logger.Info("report written", zap.String("path", out.Path), zap.String("format", string(out.Format)))

	res := &Result{Document: doc, Tables: tables, OutputPath: out.Path}
	p.afterWrite(ctx, res, counts)
	return res, nil
}

// Load reads the three inputs in order, stopping at the first failure.
func (p *Pipeline) Load(ctx context.Context) (Tables, error) {
	in := p.cfg.Inputs
	t := Tables{Rows: map[string]int{}}

	kw, err := p.read(ctx, InputKeywords, in.Keywords.Path, in.Keywords.KeywordColumn)
	if err != nil {
		return Tables{}, err
	}
	t.Keywords = source.Keywords(kw, in.Keywords.KeywordColumn)
	t.Rows[InputKeywords] = kw.Len()

	pt, err := p.read(ctx, InputPromisingTech, in.PromisingTech.Path, in.PromisingTech.NameColumn, in.PromisingTech.TitleColumn)
	if err != nil {
		return Tables{}, err
	}
	t.PromisingTech = source.PromisingTech(pt, in.PromisingTech.NameColumn, in.PromisingTech.TitleColumn)
	t.Rows[InputPromisingTech] = pt.Len()

	ex, err := p.read(ctx, InputExpenditure, in.Expenditure.Path, in.Expenditure.DivisionColumn, in.Expenditure.AmountColumn)
	if err != nil {
		return Tables{}, err
	}
	t.Expenditure, err = source.Expenditure(ex, in.Expenditure.DivisionColumn, in.Expenditure.AmountColumn)
	if err != nil {
		return Tables{}, &LoadError{Input: InputExpenditure, Err: err}
	}
	t.Rows[InputExpenditure] = ex.Len()

	p.logger.Debug("inputs loaded",
		zap.Int("keywords", len(t.Keywords)),
		zap.Int("promising_tech", len(t.PromisingTech)),
		zap.Int("expenditure", len(t.Expenditure)))
	return t, nil
}

func (p *Pipeline) read(ctx context.Context, input, path string, columns ...string) (*source.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := source.ReadTable(path, p.cfg.Inputs.Encoding, columns...)
	if err != nil {
		p.logger.Debug("load failed", zap.String("input", input), zap.String("path", path), zap.Error(err))
		return nil, &LoadError{Input: input, Err: err}
	}
	p.logger.Debug("read table", zap.String("path", path), zap.Int("rows", t.Len()))
	return t, nil
}

// afterWrite runs the optional archive and metrics exports. The report is
// already in place, so failures here are logged and do not fail the run.
func (p *Pipeline) afterWrite(ctx context.Context, res *Result, counts map[types.Stage]int) {
	finished := p.now()

	if path := p.cfg.Archive.DBPath; path != "" {
		store, err := archive.Open(path)
		if err != nil {
			p.logger.Warn("archive unavailable", zap.String("path", path), zap.Error(err))
		} else {
			run, err := store.Record(ctx, res.Document, res.OutputPath, finished)
			if err != nil {
				p.logger.Warn("archiving run failed", zap.Error(err))
			} else {
				res.RunID = run.ID
				p.logger.Info("run archived", zap.String("run_id", run.ID), zap.String("db", path))
			}
			store.Close()
		}
	}

	if path := p.cfg.Metrics.Textfile; path != "" {
		snap := metrics.Snapshot{InputRows: res.Tables.Rows, Technologies: counts, Finished: finished}
		if err := metrics.WriteTextfile(path, snap); err != nil {
			p.logger.Warn("metrics export failed", zap.String("path", path), zap.Error(err))
		}
	}
}
