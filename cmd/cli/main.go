package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "partsdash-cli",
		Short:         "Run the parts dashboard pipeline over spreadsheet files on disk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newOptionsCmd(),
		newMergeCmd(),
		newPanelCmd(),
		newExportCmd(),
	)
	return rootCmd
}

func newOptionsCmd() *cobra.Command {
	var files fileFlags
	var categories []string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List category and SKU selector options",
		Long: `List the category and SKU options, narrowing SKUs by any selected category.

Example: partsdash-cli options --products products.xlsx --category Gaskets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd, files, categories)
		},
	}

	files.register(cmd, true)
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Selected categories")
	return cmd
}

func newMergeCmd() *cobra.Command {
	var files fileFlags
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Print the product view merged with pivoted references",
		Long: `Filter the products by category and/or SKU, pivot the references (or the
applications) over the codes left in view and left-join them.

Example: partsdash-cli merge --products p.xlsx --references r.xlsx --applications a.xlsx --category Gaskets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, files, view)
		},
	}

	files.register(cmd, false)
	view.register(cmd)
	cmd.Flags().Bool("json", false, "Print the merged view as JSON")
	return cmd
}

func newExportCmd() *cobra.Command {
	var files fileFlags
	var view viewFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the merged view to an xlsx workbook",
		Long: `Write the selected columns of the merged view to an xlsx workbook.

Example: partsdash-cli export --products p.xlsx --references r.xlsx --applications a.xlsx --sku 123 --out merged.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, files, view, out)
		},
	}

	files.register(cmd, false)
	view.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "merged.xlsx", "Output workbook path")
	return cmd
}

func newPanelCmd() *cobra.Command {
	var files fileFlags
	var selections []string

	cmd := &cobra.Command{
		Use:   "panel [role]",
		Short: "Show the filter panel of a table and the rows matching the selections",
		Long: `Show the filters offered for a table and the rows left after applying them.
References and applications get the brand/reference browse panel; the ERP
export and the exploded view get cardinality-gated ad-hoc filters.

Example: partsdash-cli panel exploded_view --exploded-view parts.xlsx --filter category_name=Hardware`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(cmd, files, args[0], selections)
		},
	}

	files.register(cmd, false)
	cmd.Flags().StringArrayVar(&selections, "filter", nil, "Selection as column=value (repeatable)")
	cmd.Flags().Bool("json", false, "Print the panel as JSON")
	return cmd
}
