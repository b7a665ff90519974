// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litsearch/internal/scopus"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract article records from the Scopus API",
	Long: `Ingest extracts articles year by year from the Scopus search API across
the covered subject areas, enriches each with its full abstract, authors,
and affiliations from the abstract retrieval API, and writes the raw
records to a JSON file for store population.

Requires a Scopus API key in .secrets/scopus-api-key or the
scopus.api_key config setting.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := scopusConfig()
	if cfg.APIKey == "" {
		return fmt.Errorf("scopus API key required: set .secrets/scopus-api-key or scopus.api_key")
	}

	client := scopus.NewClient(cfg, os.Stdout)
	records, err := client.ExtractYears(context.Background())
	if err != nil {
		return err
	}

	if err := scopus.SaveRecords(cfg.OutputFile, records); err != nil {
		return err
	}
	fmt.Printf("Wrote %d records to %s\n", len(records), cfg.OutputFile)
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
