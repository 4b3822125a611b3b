package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/extract"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the cached extraction schema",
}

var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached extraction schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := schemaStore()
		s, err := store.Load()
		if err != nil {
			return err
		}
		if s.Empty() {
			fmt.Println("No cached schema; the next run will use guided extraction.")
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	},
}

var schemaClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached schema, forcing guided extraction next run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := schemaStore().Clear(); err != nil {
			return err
		}
		fmt.Println("Schema cleared.")
		return nil
	},
}

func schemaStore() *extract.SchemaStore {
	return extract.NewSchemaStore(cfg.Schema.Path, time.Duration(cfg.Schema.MaxAgeDays)*24*time.Hour)
}

func init() {
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaClearCmd)
	rootCmd.AddCommand(schemaCmd)
}
