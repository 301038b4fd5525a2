package worker

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/syllogix/internal/errors"
	"github.com/ppiankov/syllogix/internal/logger"
	"github.com/ppiankov/syllogix/internal/model"
)

// Reasoner builds a reasoning chain for one query
type Reasoner interface {
	Reason(ctx context.Context, query string) (*model.ReasoningChain, error)
}

// QueryJob runs one query on its own chain
type QueryJob struct {
	Index    int
	Query    string
	Reasoner Reasoner
}

// Execute executes the query job
func (j *QueryJob) Execute(ctx context.Context) Result {
	start := time.Now()
	chain, err := j.Reasoner.Reason(ctx, j.Query)
	return &QueryResult{
		Index:    j.Index,
		Query:    j.Query,
		Chain:    chain,
		Error:    err,
		Duration: time.Since(start),
	}
}

// QueryResult is the outcome of one query
type QueryResult struct {
	Index    int
	Query    string
	Chain    *model.ReasoningChain
	Error    error
	Duration time.Duration
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor reasons over many independent queries concurrently
type BatchProcessor struct {
	reasoner    Reasoner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(reasoner Reasoner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		reasoner:    reasoner,
		concurrency: concurrency,
	}
}

// ProcessQueries runs every query and returns results in input order.
// Queries not started before ctx ends get ctx's error.
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	log := logger.FromContext(ctx).With(logger.FieldComponent, "batch")
	log.Infow("batch started", logger.FieldCount, len(queries), "concurrency", b.concurrency)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, q := range queries {
		if !pool.Submit(&QueryJob{Index: i, Query: q, Reasoner: b.reasoner}) {
			break
		}
	}

	ordered := make([]*QueryResult, len(queries))
	for _, r := range pool.Wait() {
		qr := r.(*QueryResult)
		ordered[qr.Index] = qr
	}

	failed := 0
	for i, r := range ordered {
		if r == nil {
			cause := ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			ordered[i] = &QueryResult{Index: i, Query: queries[i], Error: errors.Wrap(cause, "query not started")}
		}
		if ordered[i].Error != nil {
			failed++
			log.Warnw("query failed", logger.FieldQuery, queries[i], logger.FieldError, ordered[i].Error)
		}
	}

	log.Infow("batch finished", logger.FieldCount, len(queries), "failed", failed)
	return ordered
}

// ProcessFile reads queries from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read queries")
	}

	return b.ProcessQueries(ctx, queries), nil
}

// Succeeded counts results without an error
func Succeeded(results []*QueryResult) int {
	n := 0
	for _, r := range results {
		if r.Error == nil {
			n++
		}
	}
	return n
}

// SortByDuration orders results slowest first, for reporting
func SortByDuration(results []*QueryResult) []*QueryResult {
	out := append([]*QueryResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Duration > out[j].Duration })
	return out
}

// ReadQueriesFromFile reads one query per line, skipping blanks,
// # comments and duplicates
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan file")
	}

	return queries, nil
}
