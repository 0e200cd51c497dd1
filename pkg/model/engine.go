package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ErrNoDocuments is returned when a batch is empty, as opposed to a batch
// whose documents all failed to yield courses.
var ErrNoDocuments = errors.New("no data to process: the batch contains no documents")

// Document is one raw instance description.
type Document struct {
	Name   string
	Reader io.Reader
}

// InstanceReport describes how a single document went through the engine.
type InstanceReport struct {
	Name        string   `json:"name"`
	Courses     int      `json:"courses"`
	Rooms       int      `json:"rooms"`
	Curricula   int      `json:"curricula"`
	Edges       int      `json:"edges"`
	Records     int      `json:"records"`
	Centrality  string   `json:"centrality"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

type BatchResult struct {
	Records []CourseFeatures `json:"records"`
	Reports []InstanceReport `json:"reports"`
}

// Engine runs parse -> conflict graph -> features -> difficulty on batches of documents.
type Engine struct {
	config    Config
	parser    Parser
	extractor Extractor
	logger    zerolog.Logger
}

func NewEngine(config Config, logger zerolog.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config:    config,
		parser:    NewParser(config, logger),
		extractor: NewExtractor(config),
		logger:    logger.With().Str("component", "engine").Logger(),
	}, nil
}

func (engine *Engine) Config() Config {
	return engine.config
}

// ProcessInstance handles a single document. It never fails: unreadable or
// degenerate documents produce no records and a report saying why.
func (engine *Engine) ProcessInstance(document Document) ([]CourseFeatures, InstanceReport) {
	instance := engine.parser.Parse(document.Name, document.Reader)
	graph := BuildConflictGraph(instance)
	records, centrality := engine.extractor.Extract(instance, graph)

	diagnostics := lo.Map(instance.Diagnostics, func(err error, _ int) string { return err.Error() })
	if !centrality.Available() && !instance.IsEmpty() {
		diagnostics = append(diagnostics, fmt.Sprintf("betweenness centrality defaulted to 0: %v", centrality.Reason))
	}

	report := InstanceReport{
		Name:        instance.Name,
		Courses:     len(instance.Courses),
		Rooms:       len(instance.Rooms),
		Curricula:   len(instance.Curricula),
		Edges:       graph.Size(),
		Records:     len(records),
		Centrality:  centrality.Status.String(),
		Diagnostics: diagnostics,
	}
	engine.logger.Debug().
		Str("instance", report.Name).
		Int("courses", report.Courses).
		Int("edges", report.Edges).
		Str("centrality", report.Centrality).
		Msg("instance processed")
	return records, report
}

// Process runs every document concurrently, bounded by Config.Workers, and
// returns the records in document-then-course order. An empty batch yields
// ErrNoDocuments; a cancelled context discards every partial result.
func (engine *Engine) Process(ctx context.Context, documents []Document) (BatchResult, error) {
	if len(documents) == 0 {
		return BatchResult{}, ErrNoDocuments
	}

	start := time.Now()
	perDocument := make([][]CourseFeatures, len(documents))
	reports := make([]InstanceReport, len(documents))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(engine.config.Workers)
	for i, document := range documents {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			perDocument[i], reports[i] = engine.ProcessInstance(document)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return BatchResult{}, fmt.Errorf("batch interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return BatchResult{}, fmt.Errorf("batch interrupted: %w", err)
	}

	result := BatchResult{
		Records: lo.Flatten(perDocument),
		Reports: reports,
	}
	engine.logger.Info().
		Int("documents", len(documents)).
		Int("records", len(result.Records)).
		Dur("elapsed", time.Since(start)).
		Msg("batch processed")
	return result, nil
}
