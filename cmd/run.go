package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/cache"
	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/fetcher"
	"github.com/sells-group/outreach-cli/internal/llm"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/research"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/scrape"
	"github.com/sells-group/outreach-cli/pkg/serpapi"
)

var (
	runInput  string
	runResume string
	runOutput string
	runStyle  string
	runLimit  int
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a leads spreadsheet end to end",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		applyRunFlags()
		if err := cfg.Validate(); err != nil {
			return err
		}

		style, err := outreach.ParseStyle(cfg.Generation.Style)
		if err != nil {
			return err
		}

		output := cfg.Output
		if output == "" {
			output = outreach.DefaultOutputPath(time.Now())
		}

		// Load inputs
		rows, header, err := fetcher.ReadLeads(cfg.Input)
		if err != nil {
			return eris.Wrap(err, "read leads")
		}
		resume, err := fetcher.ReadResume(cfg.Resume)
		if err != nil {
			return err
		}
		if runLimit > 0 && runLimit < len(rows) {
			rows = rows[:runLimit]
		}

		zap.L().Info("inputs loaded",
			zap.Int("rows", len(rows)),
			zap.String("style", string(style)),
			zap.String("output", output),
		)

		if runDryRun {
			fmt.Printf("Would process %d rows (style %s) into %s\n", len(rows), style, output)
			return nil
		}

		// Company cache
		companyCache := cache.New(cfg.Cache.Path, cfg.Cache.BackupPath)
		if err := companyCache.Load(); err != nil {
			return eris.Wrap(err, "load company cache")
		}
		zap.L().Info("company cache loaded", zap.Int("entries", companyCache.Len()))

		// Collaborators
		generator, err := llm.New(cfg.Generation)
		if err != nil {
			return err
		}

		renderer := scrape.NewLocalRenderer(scrape.Options{
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
			UserAgent:    cfg.Fetch.UserAgent,
		})

		store := extract.NewSchemaStore(cfg.Schema.Path, time.Duration(cfg.Schema.MaxAgeDays)*24*time.Hour)
		extractor, err := extract.New(renderer, generator, store)
		if err != nil {
			return err
		}

		retry := resilience.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Retry.MaxAttempts
		retry.InitialBackoff = secs(cfg.Retry.BaseDelaySecs)
		retry.MaxElapsed = secs(cfg.Retry.MaxElapsedSecs)

		searchClient := serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithEngine(cfg.SerpAPI.Engine),
		)
		researcher := research.NewPersonResearcher(
			searchClient,
			resilience.NewPacer(secs(cfg.SerpAPI.MinIntervalSecs)),
			retry,
			cfg.SerpAPI.ResultCount,
		)

		processor := outreach.NewRowProcessor(outreach.ProcessorOptions{
			Cache:      companyCache,
			Researcher: researcher,
			Extractor:  extractor,
			Generator:  generator,
			Parser:     outreach.NewParser(style, cfg.Batch.RequestCharLimit),
			Pacer:      resilience.NewPacer(secs(cfg.Generation.MinIntervalSecs)),
			Retry:      retry,
			Style:      style,
			Resume:     resume,
			Provider:   cfg.Generation.Provider,
		})

		runner := outreach.NewRunner(outreach.RunnerOptions{
			Processor: processor,
			Cache:     companyCache,
			Output:    output,
			SaveEvery: cfg.Batch.SaveEvery,
			RowDelay:  cfg.Batch.RowDelay(),
		})

		summary, err := runner.Run(ctx, header, rows)
		fmt.Printf("Run %s: %d/%d succeeded, %d failed, %d companies cached\n",
			summary.RunID, summary.Succeeded, summary.Total, summary.Failed, summary.CacheSize)
		fmt.Printf("Output written to %s\n", output)
		return err
	},
}

func applyRunFlags() {
	if runInput != "" {
		cfg.Input = runInput
	}
	if runResume != "" {
		cfg.Resume = runResume
	}
	if runOutput != "" {
		cfg.Output = runOutput
	}
	if runStyle != "" {
		cfg.Generation.Style = runStyle
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "leads spreadsheet (.xlsx or .csv)")
	runCmd.Flags().StringVar(&runResume, "resume", "", "resume text file")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output spreadsheet path (default output_<timestamp>.xlsx)")
	runCmd.Flags().StringVar(&runStyle, "style", "", "prompt style: delimiter or json")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "process only the first N rows")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "load inputs and report what would run, without calling any API")
	rootCmd.AddCommand(runCmd)
}
