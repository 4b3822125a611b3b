package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the company summary cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached companies and their summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCache()
		if err != nil {
			return err
		}
		for _, e := range c.Entries() {
			fmt.Printf("%s%s%s\n", e.Company, cache.Separator, e.Summary)
		}
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCache()
		if err != nil {
			return err
		}
		fmt.Printf("Path:    %s\n", cfg.Cache.Path)
		fmt.Printf("Backup:  %s\n", cfg.Cache.BackupPath)
		fmt.Printf("Entries: %d\n", c.Len())
		return nil
	},
}

func loadCache() (*cache.Cache, error) {
	c := cache.New(cfg.Cache.Path, cfg.Cache.BackupPath)
	if err := c.Load(); err != nil {
		return nil, eris.Wrap(err, "load company cache")
	}
	return c, nil
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
