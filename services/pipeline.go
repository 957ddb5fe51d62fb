package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bd-election-analysis/config"
	"bd-election-analysis/metrics"
	"bd-election-analysis/models"
	"bd-election-analysis/storage"
	"bd-election-analysis/utils"

	"github.com/google/uuid"
)

// Pipeline stage names, used in logs, metrics and ArtifactError
const (
	StageScrape   = "scrape"
	StageProcess  = "process"
	StageImpact   = "impact"
	StageTree     = "tree"
	StageInsights = "insights"
	StageCharts   = "charts"
	StagePersist  = "persist"
)

// Scraper produces raw candidate rows
type Scraper interface {
	Scrape(ctx context.Context) ([]*models.RawCandidateRecord, error)
}

// RunSummary describes what a pipeline run produced
type RunSummary struct {
	RunID   string
	Seats   *models.SeatTable
	Impacts *models.ImpactTable
	Tree    *TreeResult // nil when the tree had nothing to fit
	Report  *models.InsightReport
	Charts  []string
}

// Pipeline runs scrape, aggregation, weighting and reporting over the CSV artifacts
type Pipeline struct {
	cfg     *config.Config
	logger  *utils.Logger
	metrics *metrics.Recorder
	scraper Scraper
	results storage.ResultStorage
	ref     models.EconomicReference
	runID   string
	out     io.Writer

	reader     *storage.CSVReader
	writer     *storage.CSVWriter
	cleaner    *RecordCleaner
	aggregator *SeatAggregator
	engine     *ImpactEngine
	tree       *TreeAnalyzer
	insights   *InsightService
	charts     *ChartRenderer
}

// NewPipeline wires the pipeline. scraper, results and rec may be nil; a nil
// scraper makes a missing raw file an ArtifactError.
func NewPipeline(cfg *config.Config, logger *utils.Logger, rec *metrics.Recorder, scraper Scraper, results storage.ResultStorage, ref models.EconomicReference) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		metrics:    rec,
		scraper:    scraper,
		results:    results,
		ref:        ref,
		runID:      uuid.NewString(),
		out:        os.Stdout,
		reader:     storage.NewCSVReader(logger),
		writer:     storage.NewCSVWriter(logger),
		cleaner:    NewRecordCleaner(logger),
		aggregator: NewSeatAggregator(logger, rec),
		engine:     NewImpactEngine(logger, rec),
		tree:       NewTreeAnalyzer(logger, cfg.TreeMaxDepth),
		insights:   NewInsightService(logger),
		charts:     NewChartRenderer(logger, cfg.ImagesDir),
	}
}

// SetOutput redirects the terminal report, stdout by default
func (p *Pipeline) SetOutput(w io.Writer) {
	p.out = w
}

// RunID identifies this run in the SQL tables and logs
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes every stage in order. A stage whose input artifact is missing
// is skipped with a warning when a later stage can still proceed; any other
// failure ends the run.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	p.logger.Info("Pipeline run %s started", p.runID)
	summary := &RunSummary{RunID: p.runID}

	scraped, err := p.scrapeStage(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.processStage(scraped); err != nil {
		return nil, err
	}

	start := time.Now()
	seats, err := p.reader.ReadSeatTable(p.cfg.SeatFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ArtifactError{Stage: StageImpact, Path: p.cfg.SeatFile}
		}
		return nil, err
	}
	impacts, err := p.engine.Compute(seats, p.ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageImpact, err)
	}
	if err := p.writer.WriteImpactTable(p.cfg.DivisionFile, impacts); err != nil {
		return nil, fmt.Errorf("%s: %w", StageImpact, err)
	}
	p.metrics.ObserveStage(StageImpact, start)
	summary.Seats, summary.Impacts = seats, impacts

	EnrichWinners(seats)

	start = time.Now()
	tree, err := p.tree.Fit(seats, p.ref)
	switch {
	case errors.Is(err, ErrNotEnoughData):
		p.logger.Warn("Decision tree skipped: %v", err)
		p.metrics.StageSkipped(StageTree)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", StageTree, err)
	default:
		summary.Tree = tree
		PrintTreeReport(p.out, tree)
		p.metrics.ObserveStage(StageTree, start)
	}

	start = time.Now()
	summary.Report = p.insights.Generate(seats, impacts)
	PrintInsightReport(p.out, summary.Report)
	p.metrics.ObserveStage(StageInsights, start)

	if p.cfg.SkipCharts {
		p.logger.Info("Chart rendering disabled")
		p.metrics.StageSkipped(StageCharts)
	} else {
		start = time.Now()
		charts, err := p.charts.RenderAll(ctx, seats, impacts, p.ref)
		switch {
		case errors.Is(err, ErrNotEnoughData):
			p.logger.Warn("Charts skipped: %v", err)
			p.metrics.StageSkipped(StageCharts)
		case err != nil:
			return nil, fmt.Errorf("%s: %w", StageCharts, err)
		default:
			summary.Charts = charts
			p.metrics.ObserveStage(StageCharts, start)
		}
	}

	if p.results != nil {
		start = time.Now()
		if err := p.results.SaveSeats(ctx, p.runID, seats); err != nil {
			return nil, fmt.Errorf("%s: %w", StagePersist, err)
		}
		if err := p.results.SaveImpact(ctx, p.runID, impacts); err != nil {
			return nil, fmt.Errorf("%s: %w", StagePersist, err)
		}
		p.metrics.ObserveStage(StagePersist, start)
	}

	if p.cfg.MetricsFile != "" {
		if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
			p.logger.Warn("Metrics not written: %v", err)
		}
	}

	p.logger.Info("Pipeline run %s finished", p.runID)
	return summary, nil
}

// scrapeStage scrapes when forced or when neither the raw nor the seat file
// exists. It reports whether fresh raw data was written.
func (p *Pipeline) scrapeStage(ctx context.Context) (bool, error) {
	rawExists, seatExists := fileExists(p.cfg.RawFile), fileExists(p.cfg.SeatFile)
	if !p.cfg.ForceScrape && (rawExists || seatExists) {
		p.logger.Debug("Scrape not needed, raw or seat data present")
		p.metrics.StageSkipped(StageScrape)
		return false, nil
	}

	if p.cfg.SkipScrape || p.scraper == nil {
		err := &ArtifactError{Stage: StageScrape, Path: p.cfg.RawFile}
		if rawExists || seatExists {
			p.skip(err)
			return false, nil
		}
		return false, err
	}

	start := time.Now()
	records, err := p.scraper.Scrape(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", StageScrape, err)
	}
	if len(records) == 0 {
		return false, fmt.Errorf("%s: no candidate rows scraped", StageScrape)
	}
	if err := p.writer.WriteRawRecords(p.cfg.RawFile, records); err != nil {
		return false, fmt.Errorf("%s: %w", StageScrape, err)
	}
	p.metrics.ObserveStage(StageScrape, start)
	return true, nil
}

// processStage rebuilds the seat file from raw data when it is missing, when
// processing is forced or when raw data was just scraped
func (p *Pipeline) processStage(scraped bool) error {
	seatExists := fileExists(p.cfg.SeatFile)
	if seatExists && !scraped && !p.cfg.ForceProcess {
		p.logger.Info("Using existing seat data: %s", p.cfg.SeatFile)
		p.metrics.StageSkipped(StageProcess)
		return nil
	}

	if !fileExists(p.cfg.RawFile) {
		err := &ArtifactError{Stage: StageProcess, Path: p.cfg.RawFile}
		if seatExists {
			p.skip(err)
			return nil
		}
		return err
	}

	start := time.Now()
	records, err := p.reader.ReadRawRecords(p.cfg.RawFile)
	if err != nil {
		return fmt.Errorf("%s: %w", StageProcess, err)
	}
	table := p.aggregator.Aggregate(p.cleaner.Clean(records))
	if err := p.writer.WriteSeatTable(p.cfg.SeatFile, table); err != nil {
		return fmt.Errorf("%s: %w", StageProcess, err)
	}
	p.metrics.ObserveStage(StageProcess, start)
	return nil
}

func (p *Pipeline) skip(err *ArtifactError) {
	p.logger.Warn("Stage %s skipped: %v", err.Stage, err)
	p.metrics.StageSkipped(err.Stage)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
