package outreach

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/cache"
	"github.com/sells-group/outreach-cli/internal/model"
)

type snapshotRecorder struct {
	writes   int
	lastSeen []*model.RowResult
	err      error
}

func (s *snapshotRecorder) write(_ string, _ []string, _ []model.LeadRow, results []*model.RowResult) error {
	s.writes++
	s.lastSeen = append([]*model.RowResult(nil), results...)
	return s.err
}

func newRunnerFixture(t *testing.T, f *processorFixture) (*Runner, *snapshotRecorder, *cache.Cache) {
	t.Helper()

	runner := NewRunner(RunnerOptions{
		Processor: f.processor,
		Cache:     f.cache,
		Output:    filepath.Join(t.TempDir(), "out.xlsx"),
		SaveEvery: 5,
	})
	rec := &snapshotRecorder{}
	runner.write = rec.write

	return runner, rec, f.cache
}

func makeRows(n int) []model.LeadRow {
	rows := make([]model.LeadRow, n)
	for i := range rows {
		rows[i] = model.LeadRow{Index: i, FirstName: "Lead", CompanyName: "Acme", Website: "https://acme.test"}
	}
	return rows
}

func TestRunSnapshotsEveryNAndAtEnd(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, rec, _ := newRunnerFixture(t, f)

	summary, err := runner.Run(context.Background(), testHeaderCols(), makeRows(12))
	require.NoError(t, err)

	// Two periodic snapshots (after rows 5 and 10) plus the final one.
	assert.Equal(t, 3, rec.writes)
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, 12, summary.Succeeded)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
}

func TestRunRowFailureDoesNotStopBatch(t *testing.T) {
	f := newFixture(t, StyleDelimiter)

	calls := 0
	f.processor.generator = generatorFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 7 {
			return "", errors.New("model exploded")
		}
		return delimitedOutput, nil
	})

	runner, rec, _ := newRunnerFixture(t, f)

	summary, err := runner.Run(context.Background(), testHeaderCols(), makeRows(12))
	require.NoError(t, err)

	assert.Equal(t, 11, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, rec.writes)

	require.Len(t, rec.lastSeen, 12)
	assert.Equal(t, model.StatusFailed, rec.lastSeen[6].Status)
	assert.Contains(t, rec.lastSeen[6].ColdEmail, "model exploded")
	assert.Equal(t, model.StatusSuccess, rec.lastSeen[7].Status)
}

func TestRunStampsProcessedAt(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, rec, _ := newRunnerFixture(t, f)

	before := time.Now()
	_, err := runner.Run(context.Background(), testHeaderCols(), makeRows(1))
	require.NoError(t, err)

	require.Len(t, rec.lastSeen, 1)
	require.NotNil(t, rec.lastSeen[0])
	assert.False(t, rec.lastSeen[0].ProcessedAt.Before(before))
}

func TestRunSavesCacheAtEnd(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, _, c := newRunnerFixture(t, f)

	summary, err := runner.Run(context.Background(), testHeaderCols(), makeRows(3))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CacheSize)
	_, ok := c.Get("Acme")
	assert.True(t, ok)
}

func TestRunCancelledStillSnapshots(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, rec, _ := newRunnerFixture(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.Run(ctx, testHeaderCols(), makeRows(5))
	assert.Error(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	// Final snapshot still written on the way out.
	assert.Equal(t, 1, rec.writes)
}

func TestRunPanicBecomesFatalRow(t *testing.T) {
	f := newFixture(t, StyleDelimiter)

	calls := 0
	f.processor.generator = generatorFunc(func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 2 {
			panic("nil map write")
		}
		return delimitedOutput, nil
	})

	runner, rec, _ := newRunnerFixture(t, f)

	summary, err := runner.Run(context.Background(), testHeaderCols(), makeRows(3))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, model.StatusFatal, rec.lastSeen[1].Status)
	assert.Equal(t, "Fatal Error: nil map write", rec.lastSeen[1].StatusCell())
}

func TestRunSnapshotErrorAbortsRun(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, rec, _ := newRunnerFixture(t, f)
	rec.err = errors.New("disk full")

	_, err := runner.Run(context.Background(), testHeaderCols(), makeRows(12))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunRowDelayBetweenRows(t *testing.T) {
	f := newFixture(t, StyleDelimiter)
	runner, _, _ := newRunnerFixture(t, f)
	runner.rowDelay = 15 * time.Millisecond

	start := time.Now()
	_, err := runner.Run(context.Background(), testHeaderCols(), makeRows(3))
	require.NoError(t, err)

	// One delay after each row, the last included.
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestDefaultOutputPath(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "output_20250601_123045.xlsx", DefaultOutputPath(at))
}

func testHeaderCols() []string {
	return []string{"First Name", "Company Name", "Website"}
}
