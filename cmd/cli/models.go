package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/audit-warden/internal/llm"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models in the catalog and what they support",
	Args:  cobra.NoArgs,
	// The catalog is embedded; listing it needs no credentials.
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
	RunE: func(_ *cobra.Command, _ []string) error {
		catalog, err := llm.LoadCatalog()
		if err != nil {
			return err
		}
		if modelsJSON {
			return writeJSONOutput(os.Stdout, catalog.Models())
		}
		return printModels(catalog.Models())
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Output the catalog as JSON")
	rootCmd.AddCommand(modelsCmd)
}

func printModels(models []llm.ModelInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	boldColor.Fprintln(w, "MODEL\tPROVIDER\tREASONING\tDESCRIPTION")
	for _, m := range models {
		reasoning := "-"
		if m.Reasoning {
			reasoning = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Provider, reasoning, m.Description)
	}
	return w.Flush()
}
