package app

import (
	"context"
	"fmt"
	"strings"

	"partsdash/domain/catalog"
	"partsdash/domain/core"
	"partsdash/domain/table"
	"partsdash/internal"
	"partsdash/internal/errors"
	"partsdash/internal/filters"
	"partsdash/internal/merge"
	"partsdash/internal/pivot"
	"partsdash/internal/schema"
	"partsdash/ports"
)

// DashboardConfig tunes one DashboardService.
type DashboardConfig struct {
	FilterAllLabel   string
	CollisionPolicy  pivot.CollisionPolicy
	AdhocMaxDistinct int
}

// DashboardService runs one recomputation pass of the dashboard for a set of
// uploaded files. It holds no per-user state: files and the loader cache are
// passed in on every call.
type DashboardService struct {
	cascade          *filters.Cascade
	pivot            *pivot.Engine
	adhocMaxDistinct int
	logger           *internal.Logger
}

// SelectorOptions are the cascading product selectors.
type SelectorOptions struct {
	AllLabel   string   `json:"all_label"`
	Categories []string `json:"categories"`
	SKUs       []string `json:"skus"`
}

// MergedView is the product view joined with pivoted references.
type MergedView struct {
	Ready       bool                      `json:"ready"`
	Message     string                    `json:"message,omitempty"`
	Against     catalog.Role              `json:"against"`
	ProductRows int                       `json:"product_rows"`
	MaxRepeat   int                       `json:"max_repeat"`
	Collisions  []pivot.Collision         `json:"collisions,omitempty"`
	Columns     merge.ColumnToggle        `json:"columns"`
	Table       *table.Table              `json:"table,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
	Selections  []catalog.FilterSelection `json:"selections,omitempty"`

	// Merged is the full merged table before the display toggle.
	Merged *table.Table `json:"-"`
}

// PanelView is a filter panel and the rows passing its selections.
type PanelView struct {
	Panel    filters.Panel `json:"panel"`
	Table    *table.Table  `json:"table"`
	Total    int           `json:"total"`
	Warnings []string      `json:"warnings,omitempty"`
}

// UploadReport summarizes a freshly decoded upload.
type UploadReport struct {
	Role     catalog.Role `json:"role"`
	Rows     int          `json:"rows"`
	Columns  []string     `json:"columns"`
	Warnings []string     `json:"warnings,omitempty"`
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(config DashboardConfig) *DashboardService {
	maxDistinct := config.AdhocMaxDistinct
	if maxDistinct <= 0 {
		maxDistinct = filters.DefaultMaxDistinct
	}
	return &DashboardService{
		cascade: filters.NewCascade(config.FilterAllLabel,
			filters.Field{Name: catalog.FilterCategory, Column: catalog.ColCategoryText},
			filters.Field{Name: catalog.FilterSKU, Column: catalog.ColProductCode, Transform: pivot.NormalizeCode},
		),
		pivot:            pivot.NewEngine(config.CollisionPolicy),
		adhocMaxDistinct: maxDistinct,
		logger:           internal.DefaultLogger.Named("Dashboard"),
	}
}

// CheckMandatory fails with ErrMissingFile naming every absent mandatory role.
func (s *DashboardService) CheckMandatory(sources ports.SourceSet) error {
	var missing []string
	for _, role := range catalog.Roles {
		if !role.Mandatory() {
			continue
		}
		if _, ok := sources.Source(role); !ok {
			missing = append(missing, role.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: upload %s first", core.ErrMissingFile, strings.Join(missing, ", "))
	}
	return nil
}

// SelectorOptions computes category and SKU options from the basic product
// columns, narrowing SKUs by the selected category.
func (s *DashboardService) SelectorOptions(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, state catalog.FilterState) (*SelectorOptions, error) {
	products, err := s.load(ctx, loader, sources, catalog.RoleProducts, catalog.ProductBasicColumns)
	if err != nil {
		return nil, err
	}

	options := s.cascade.AllOptions(products, state)
	return &SelectorOptions{
		AllLabel:   s.cascade.AllLabel(),
		Categories: options[catalog.FilterCategory],
		SKUs:       options[catalog.FilterSKU],
	}, nil
}

// MergedView filters the products, pivots the requested long table over the
// codes left in view and left-joins the two.
func (s *DashboardService) MergedView(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, req catalog.ViewRequest) (*MergedView, error) {
	if err := s.CheckMandatory(sources); err != nil {
		return nil, err
	}

	against := req.Against
	if against == "" {
		against = catalog.RoleReferences
	}
	if !against.IsReferenceLike() {
		return nil, errors.InvalidInput(fmt.Sprintf("cannot pivot %s onto products", against))
	}

	view := &MergedView{Against: against, Selections: req.Filters.Selections()}
	if !s.cascade.Active(req.Filters) {
		view.Message = "select a category or a SKU to build the merged view"
		return view, nil
	}

	// Step 1: full product table, filtered by category and SKU
	products, err := s.load(ctx, loader, sources, catalog.RoleProducts, nil)
	if err != nil {
		return nil, err
	}
	if err := schema.Require(products, catalog.ProductBasicColumns...); err != nil {
		return nil, err
	}
	filtered := s.cascade.Apply(products, req.Filters)
	view.ProductRows = filtered.Len()

	// Step 2: pivot the long table over the codes in view
	pivoted, err := s.pivotAgainst(ctx, loader, sources, against, pivot.CodesOf(filtered, catalog.ColProductCode), view)
	if err != nil {
		return nil, err
	}

	// Step 3: left join and display toggle
	merged, err := merge.Join(filtered, catalog.ColProductCode, pivoted)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	view.Merged = merged
	view.Columns = merge.NewColumnToggle(merged, req.Columns)

	display := view.Columns.Display(merged)
	if req.SortBy != "" {
		if display.HasColumn(req.SortBy) {
			display = display.SortBy(req.SortBy)
		} else {
			view.Warnings = append(view.Warnings, fmt.Sprintf("sort column %q is not displayed; keeping source order", req.SortBy))
		}
	}
	view.Table = display
	view.Ready = true

	s.logger.Debug("merged view against %s: %d product rows, max repeat %d, %d columns shown",
		against, view.ProductRows, view.MaxRepeat, len(view.Columns.Selected))
	return view, nil
}

// pivotAgainst returns the pivoted long table, or an empty pivot with a
// warning when the long table cannot serve the join.
func (s *DashboardService) pivotAgainst(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, role catalog.Role, interest pivot.CodeSet, view *MergedView) (*table.Table, error) {
	empty := table.New(role.String()+"_pivot", []string{pivot.ColCode, pivot.ColCodeNormalized})

	long, err := s.load(ctx, loader, sources, role, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("skipping %s pivot: %v", role, err)
		view.Warnings = append(view.Warnings, err.Error())
		return empty, nil
	}

	cols, err := resolveLongColumns(long)
	if err != nil {
		s.logger.Warn("skipping %s pivot: %v", role, err)
		view.Warnings = append(view.Warnings, err.Error())
		return empty, nil
	}

	result, err := s.pivot.Pivot(long, cols, interest)
	if err != nil {
		return nil, err
	}
	view.MaxRepeat = result.MaxRepeat
	view.Collisions = result.Collisions
	return result.Table, nil
}

// BrowsePanel offers brand, reference and (for references) code filters over
// a long table and returns the rows matching the selections.
func (s *DashboardService) BrowsePanel(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, role catalog.Role, state catalog.FilterState) (*PanelView, error) {
	if !role.IsReferenceLike() {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no browse panel", role))
	}

	full, err := s.load(ctx, loader, sources, role, nil)
	if err != nil {
		return nil, err
	}
	cols, err := resolveLongColumns(full)
	if err != nil {
		return nil, err
	}

	subset, err := s.load(ctx, loader, sources, role, []string{cols.Code, cols.Brand, cols.Reference})
	if err != nil {
		return nil, err
	}

	filterColumns := []string{cols.Brand, cols.Reference}
	if role == catalog.RoleReferences {
		filterColumns = append(filterColumns, cols.Code)
	}
	panel := filters.NewPanel(subset, filterColumns...)
	return &PanelView{Panel: panel, Table: panel.Apply(subset, state), Total: subset.Len()}, nil
}

// AdhocPanel derives cardinality-gated filters for an optional table and
// returns the rows matching the selections.
func (s *DashboardService) AdhocPanel(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, role catalog.Role, state catalog.FilterState) (*PanelView, error) {
	var (
		t           *table.Table
		entity      string
		passThrough []string
		warnings    []string
		err         error
	)

	switch role {
	case catalog.RoleERPExport:
		t, err = s.load(ctx, loader, sources, role, nil)
		if err != nil {
			return nil, err
		}
		entity, err = schema.ResolverFor(t).Resolve(catalog.MaterialSynonyms...)
		if err != nil {
			// Without an entity column every column is a filter candidate.
			s.logger.Warn("%v", err)
			warnings = append(warnings, err.Error())
		}
	case catalog.RoleExplodedView:
		t, err = s.load(ctx, loader, sources, role, catalog.ExplodedViewColumns)
		if err != nil {
			return nil, err
		}
		entity = catalog.ColCodiceAMA
		passThrough = []string{catalog.ColLinkURL}
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no ad-hoc panel", role))
	}

	panel := filters.AutoPanel(t, entity, s.adhocMaxDistinct).Without(passThrough...)
	return &PanelView{Panel: panel, Table: panel.Apply(t, state), Total: t.Len(), Warnings: warnings}, nil
}

// InspectUpload decodes an upload once so format and required-column errors
// surface when the file arrives. Unresolvable synonym columns only warn, as
// they disable a feature rather than the file.
func (s *DashboardService) InspectUpload(ctx context.Context, loader ports.TableLoaderPort, src ports.TableSource) (*UploadReport, error) {
	t, err := loader.Load(ctx, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s table: %w", src.Role, err)
	}
	report := &UploadReport{Role: src.Role, Rows: t.Len(), Columns: t.Columns}

	switch {
	case src.Role == catalog.RoleProducts:
		err = schema.Require(t, catalog.ProductBasicColumns...)
	case src.Role == catalog.RoleExplodedView:
		err = schema.Require(t, catalog.ExplodedViewColumns...)
	case src.Role.IsReferenceLike():
		if _, rerr := resolveLongColumns(t); rerr != nil {
			report.Warnings = append(report.Warnings, rerr.Error())
		}
	case src.Role == catalog.RoleERPExport:
		if _, rerr := schema.ResolverFor(t).Resolve(catalog.MaterialSynonyms...); rerr != nil {
			report.Warnings = append(report.Warnings, rerr.Error())
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("accepted %s upload %s: %d rows, %d columns", src.Role, src.Name, report.Rows, len(report.Columns))
	return report, nil
}

func (s *DashboardService) load(ctx context.Context, loader ports.TableLoaderPort, sources ports.SourceSet, role catalog.Role, columns []string) (*table.Table, error) {
	src, ok := sources.Source(role)
	if !ok {
		return nil, fmt.Errorf("%w: %s not uploaded", core.ErrMissingFile, role)
	}
	t, err := loader.Load(ctx, src, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s table: %w", role, err)
	}
	return t, nil
}

// resolveLongColumns finds the code, brand and reference columns of a
// reference-shaped table.
func resolveLongColumns(t *table.Table) (pivot.Columns, error) {
	r := schema.ResolverFor(t)
	code, err := r.Resolve(catalog.CodeSynonyms...)
	if err != nil {
		return pivot.Columns{}, err
	}
	brand, err := r.Resolve(catalog.BrandSynonyms...)
	if err != nil {
		return pivot.Columns{}, err
	}
	reference, err := r.Resolve(catalog.ReferenceSynonyms...)
	if err != nil {
		return pivot.Columns{}, err
	}
	return pivot.Columns{Code: code, Brand: brand, Reference: reference}, nil
}
