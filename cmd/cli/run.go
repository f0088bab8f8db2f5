package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"partsdash/adapters/excel"
	"partsdash/app"
	"partsdash/domain/catalog"
	"partsdash/domain/table"
	"partsdash/internal/config"
	"partsdash/internal/loader"
	"partsdash/ports"

	"github.com/spf13/cobra"
)

// fileFlags maps each role to a path on disk.
type fileFlags struct {
	paths map[catalog.Role]*string
}

var roleFlags = map[catalog.Role]string{
	catalog.RoleProducts:     "products",
	catalog.RoleReferences:   "references",
	catalog.RoleApplications: "applications",
	catalog.RoleERPExport:    "erp-export",
	catalog.RoleExplodedView: "exploded-view",
}

func (f *fileFlags) register(cmd *cobra.Command, productsOnly bool) {
	f.paths = make(map[catalog.Role]*string)
	for _, role := range catalog.Roles {
		if productsOnly && role != catalog.RoleProducts {
			continue
		}
		f.paths[role] = cmd.Flags().String(roleFlags[role], "", fmt.Sprintf("Path of the %s file (.xlsx or .csv)", role))
	}
}

// diskSources is a SourceSet read from local files.
type diskSources map[catalog.Role]ports.TableSource

func (s diskSources) Source(role catalog.Role) (ports.TableSource, bool) {
	src, ok := s[role]
	return src, ok
}

func (f *fileFlags) load() (diskSources, error) {
	sources := make(diskSources)
	for role, path := range f.paths {
		if path == nil || *path == "" {
			continue
		}
		file, err := os.Open(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s file: %w", role, err)
		}
		src, err := loader.SourceFromReader(ports.TableSource{Role: role, Name: filepath.Base(*path)}, file)
		file.Close()
		if err != nil {
			return nil, err
		}
		sources[role] = src
	}
	return sources, nil
}

// viewFlags are the merged view parameters.
type viewFlags struct {
	categories []string
	skus       []string
	columns    []string
	sortBy     string
	against    string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&v.categories, "category", nil, "Selected categories")
	cmd.Flags().StringSliceVar(&v.skus, "sku", nil, "Selected SKUs (normalized codes)")
	cmd.Flags().StringSliceVar(&v.columns, "columns", nil, "Columns to show (default: every non-empty column)")
	cmd.Flags().StringVar(&v.sortBy, "sort", "", "Column to sort the display by")
	cmd.Flags().StringVar(&v.against, "against", string(catalog.RoleReferences), "Table to pivot onto the products (references or applications)")
}

func (v *viewFlags) request(cmd *cobra.Command) (catalog.ViewRequest, error) {
	against, err := catalog.ParseRole(v.against)
	if err != nil {
		return catalog.ViewRequest{}, err
	}
	req := catalog.ViewRequest{
		Filters: catalog.FilterState{}.
			With(catalog.FilterCategory, v.categories...).
			With(catalog.FilterSKU, v.skus...),
		SortBy:  v.sortBy,
		Against: against,
	}
	if cmd.Flags().Changed("columns") {
		req.Columns = append([]string{}, v.columns...)
	}
	return req, nil
}

// pipeline bundles a service with a fresh cache for one command run.
type pipeline struct {
	service *app.DashboardService
	loader  *loader.Loader
}

func newPipeline() (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &pipeline{
		service: app.NewDashboardService(app.DashboardConfig{
			FilterAllLabel:   cfg.Pipeline.FilterAllLabel,
			CollisionPolicy:  cfg.Pipeline.CollisionPolicy,
			AdhocMaxDistinct: cfg.Pipeline.AdhocMaxDistinct,
		}),
		loader: loader.New(excel.NewDataReader(excel.DefaultReaderConfig()), loader.Config{
			FoldAccents: cfg.Pipeline.FoldHeaderAccents,
		}),
	}, nil
}

func runOptions(cmd *cobra.Command, files fileFlags, categories []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	sources, err := files.load()
	if err != nil {
		return err
	}

	state := catalog.FilterState{}.With(catalog.FilterCategory, categories...)
	opts, err := p.service.SelectorOptions(cmd.Context(), p.loader, sources, state)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Categories (%d):\n", len(opts.Categories)-1)
	for _, c := range opts.Categories[1:] {
		fmt.Fprintf(out, "  %s\n", c)
	}
	fmt.Fprintf(out, "SKUs (%d):\n", len(opts.SKUs)-1)
	for _, s := range opts.SKUs[1:] {
		fmt.Fprintf(out, "  %s\n", s)
	}
	return nil
}

func mergedView(cmd *cobra.Command, files fileFlags, view viewFlags) (*app.MergedView, error) {
	p, err := newPipeline()
	if err != nil {
		return nil, err
	}
	sources, err := files.load()
	if err != nil {
		return nil, err
	}
	req, err := view.request(cmd)
	if err != nil {
		return nil, err
	}

	merged, err := p.service.MergedView(cmd.Context(), p.loader, sources, req)
	if err != nil {
		return nil, err
	}
	for _, w := range merged.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	for _, c := range merged.Collisions {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: codes %s share normalized code %s\n", strings.Join(c.RawCodes, ", "), c.Normalized)
	}
	return merged, nil
}

func runMerge(cmd *cobra.Command, files fileFlags, view viewFlags) error {
	merged, err := mergedView(cmd, files, view)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, merged)
	}
	if !merged.Ready {
		fmt.Fprintln(out, merged.Message)
		return nil
	}

	fmt.Fprintf(out, "%d product rows merged against %s (max repeat %d)\n\n", merged.ProductRows, merged.Against, merged.MaxRepeat)
	return printTable(out, merged.Table)
}

func runExport(cmd *cobra.Command, files fileFlags, view viewFlags, path string) error {
	merged, err := mergedView(cmd, files, view)
	if err != nil {
		return err
	}
	if !merged.Ready {
		return fmt.Errorf("nothing to export: %s", merged.Message)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := excel.NewDataWriter("Merged").WriteTable(cmd.Context(), f, merged.Table); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows x %d columns to %s\n", merged.Table.Len(), len(merged.Table.Columns), path)
	return nil
}

func runPanel(cmd *cobra.Command, files fileFlags, roleName string, selections []string) error {
	role, err := catalog.ParseRole(roleName)
	if err != nil {
		return err
	}
	p, err := newPipeline()
	if err != nil {
		return err
	}
	sources, err := files.load()
	if err != nil {
		return err
	}

	state := catalog.FilterState{}
	grouped := make(map[string][]string)
	var order []string
	for _, s := range selections {
		column, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, expected column=value", s)
		}
		if _, seen := grouped[column]; !seen {
			order = append(order, column)
		}
		grouped[column] = append(grouped[column], value)
	}
	for _, column := range order {
		state = state.With(column, grouped[column]...)
	}

	var view *app.PanelView
	if role.IsReferenceLike() {
		view, err = p.service.BrowsePanel(cmd.Context(), p.loader, sources, role, state)
	} else {
		view, err = p.service.AdhocPanel(cmd.Context(), p.loader, sources, role, state)
	}
	if err != nil {
		return err
	}
	for _, w := range view.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, view)
	}

	fmt.Fprintf(out, "Filters for %s:\n", role)
	for _, f := range view.Panel.Filters {
		fmt.Fprintf(out, "  %s (%d options)\n", f.Column, len(f.Options))
	}
	fmt.Fprintf(out, "\n%d of %d rows\n\n", view.Table.Len(), view.Total)
	return printTable(out, view.Table)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = row[c]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
