package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/cache"
	"github.com/sells-group/outreach-cli/internal/fetcher"
	"github.com/sells-group/outreach-cli/internal/model"
)

// Runner processes a spreadsheet sequentially, snapshotting the output file
// every SaveEvery rows and once more at the end so progress survives a crash.
type Runner struct {
	processor *RowProcessor
	cache     *cache.Cache
	output    string
	saveEvery int
	rowDelay  time.Duration
	write     func(path string, header []string, rows []model.LeadRow, results []*model.RowResult) error
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Processor *RowProcessor
	Cache     *cache.Cache
	Output    string
	SaveEvery int
	RowDelay  time.Duration
}

// NewRunner creates a Runner. SaveEvery below 1 defaults to 5.
func NewRunner(opts RunnerOptions) *Runner {
	saveEvery := opts.SaveEvery
	if saveEvery < 1 {
		saveEvery = 5
	}
	return &Runner{
		processor: opts.Processor,
		cache:     opts.Cache,
		output:    opts.Output,
		saveEvery: saveEvery,
		rowDelay:  opts.RowDelay,
		write:     fetcher.WriteLeads,
	}
}

// Run processes every row in order. Cancellation is honored at row
// boundaries; the output file and cache are still flushed before returning.
func (r *Runner) Run(ctx context.Context, header []string, rows []model.LeadRow) (model.RunSummary, error) {
	summary := model.RunSummary{
		RunID:     uuid.NewString(),
		Total:     len(rows),
		StartedAt: time.Now(),
	}

	zap.L().Info("starting batch run",
		zap.String("run_id", summary.RunID),
		zap.Int("rows", len(rows)),
		zap.String("output", r.output),
	)

	results := make([]*model.RowResult, len(rows))
	var runErr error

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			zap.L().Warn("run cancelled", zap.Int("processed", i))
			runErr = eris.Wrap(err, "outreach: run cancelled")
			break
		}

		result := stamp(r.processRow(ctx, row), time.Now())
		results[i] = &result

		if result.Status == model.StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}

		if (i+1)%r.saveEvery == 0 {
			if err := r.snapshot(header, rows, results); err != nil {
				runErr = err
				break
			}
			zap.L().Info("progress saved", zap.Int("processed", i+1), zap.Int("total", len(rows)))
		}

		if r.rowDelay > 0 {
			if err := sleepCtx(ctx, r.rowDelay); err != nil {
				runErr = eris.Wrap(err, "outreach: run cancelled")
				break
			}
		}
	}

	if err := r.snapshot(header, rows, results); err != nil && runErr == nil {
		runErr = err
	}
	if err := r.cache.Save(); err != nil {
		zap.L().Error("final cache save failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}

	summary.CacheSize = r.cache.Len()
	summary.FinishedAt = time.Now()

	zap.L().Info("batch run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("cache_size", summary.CacheSize),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return summary, runErr
}

// processRow shields the loop from panics in collaborator code; a panic
// becomes a fatal row instead of killing the run.
func (r *Runner) processRow(ctx context.Context, row model.LeadRow) (result model.RowResult) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("panic processing row", zap.Int("row", row.Index), zap.Any("panic", rec))
			result = model.RowResult{
				Status:      model.StatusFatal,
				ErrorDetail: fmt.Sprint(rec),
			}
		}
	}()
	return r.processor.Process(ctx, row)
}

func (r *Runner) snapshot(header []string, rows []model.LeadRow, results []*model.RowResult) error {
	if err := r.write(r.output, header, rows, results); err != nil {
		return eris.Wrap(err, "outreach: write output snapshot")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DefaultOutputPath returns the timestamped output filename used when none
// is configured.
func DefaultOutputPath(now time.Time) string {
	return "output_" + now.Format("20060102_150405") + ".xlsx"
}
