package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"prompt_page_studio/kickstarters"
	"prompt_page_studio/server"
)

var catalogBusiness string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List kickstarter questions by category",
	Long: `List the default kickstarter questions plus the account's custom ones
from the configured store.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogBusiness, "business", "", "render questions for this business name")
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	catalog := kickstarters.NewCatalog(cfg.Kickstarters)
	if _, err := kickstarters.NewLoader(st).Load(ctx, server.DefaultAccountID, catalog); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	byCat := catalog.ByCategory()
	for _, cat := range kickstarters.Categories() {
		for _, it := range byCat[cat] {
			q := it.Question
			if catalogBusiness != "" {
				q = kickstarters.Render(it, catalogBusiness)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", cat, it.ID, q)
		}
	}
	return w.Flush()
}
