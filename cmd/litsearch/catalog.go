// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litsearch/internal/catalog"
	"github.com/pdiddy/litsearch/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the entities known to the query parser",
	Long: `Catalog lists the distinct countries, institutions, and author names the
query parser matches filters against. Useful for checking why a query did
or did not trigger entity detection.`,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	cat := catalog.New(st, os.Stderr)
	ents := cat.Entities(context.Background())

	printSection := func(name string, values []string) {
		fmt.Printf("%s (%d):\n", name, len(values))
		for _, v := range values {
			fmt.Printf("  %s\n", v)
		}
	}

	kind, _ := cmd.Flags().GetString("kind")
	switch kind {
	case "countries":
		printSection("Countries", ents.Countries)
	case "institutions":
		printSection("Institutions", ents.Institutions)
	case "authors":
		printSection("Authors", ents.Authors)
	case "":
		printSection("Countries", ents.Countries)
		printSection("Institutions", ents.Institutions)
		printSection("Authors", ents.Authors)
	default:
		return fmt.Errorf("unsupported kind %q: use countries, institutions, or authors", kind)
	}
	return nil
}

func init() {
	catalogCmd.Flags().String("kind", "", "limit output to one entity kind")

	rootCmd.AddCommand(catalogCmd)
}
