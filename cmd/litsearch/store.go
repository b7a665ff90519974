// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litsearch/internal/scopus"
	"github.com/pdiddy/litsearch/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the relational article store",
	Long: `Store manages the SQLite article database. Use subcommands to create the
schema or populate it from an acquisition JSON file.`,
}

// --- init subcommand ---

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the article database schema",
	Long: `Init drops any existing tables and creates the article, author, and
affiliation schema. Existing data is lost.`,
	RunE: runStoreInit,
}

func runStoreInit(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(context.Background()); err != nil {
		return err
	}
	fmt.Println("Database schema created.")
	return nil
}

// --- populate subcommand ---

var storePopulateCmd = &cobra.Command{
	Use:   "populate [file]",
	Short: "Load acquisition records into the store",
	Long: `Populate reads a Scopus acquisition JSON file (as written by ingest) and
loads its articles, authors, and affiliations into the store. Articles are
replaced on conflict; authors and affiliations are deduplicated on their
Scopus identifiers.`,
	RunE: runStorePopulate,
}

func runStorePopulate(cmd *cobra.Command, args []string) error {
	path := scopusConfig().OutputFile
	if len(args) > 0 {
		path = args[0]
	}

	records, err := scopus.LoadRecords(path)
	if err != nil {
		return err
	}

	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.Populate(context.Background(), records, os.Stdout)
	return err
}

func init() {
	storeCmd.AddCommand(storeInitCmd)
	storeCmd.AddCommand(storePopulateCmd)

	rootCmd.AddCommand(storeCmd)
}
