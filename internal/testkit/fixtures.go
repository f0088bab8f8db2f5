package testkit

import (
	"fmt"
	"testing"

	"partsdash/domain/catalog"
)

// ProductSheet is a small product catalog with zero-padded codes.
func ProductSheet() Sheet {
	return Sheet{
		Headers: []string{"Product Code", "Category Text", "Description"},
		Rows: [][]string{
			{"00123", "Gaskets", "Head gasket"},
			{"0456", "Gaskets", "Sump gasket"},
			{"789", "Filters", "Oil filter"},
			{"00000", "Filters", "Placeholder"},
			{"0999", "Belts", ""},
		},
	}
}

// ReferenceSheet cross-references product codes to competitor brands.
// Code 123 appears three times (Zeta, Alpha, Mid in that order), 456 once.
func ReferenceSheet() Sheet {
	return Sheet{
		Headers: []string{"code", "Company_Name", "relation_code"},
		Rows: [][]string{
			{"123", "Zeta", "Z-1"},
			{"456", "Bosch", "B-456"},
			{"123", "Alpha", "A-1"},
			{"789", "Mann", "W-789"},
			{"123", "Mid", "M-1"},
			{"000", "Ghost", "G-0"},
			{"555", "Unused", "U-5"},
		},
	}
}

// ApplicationSheet maps product codes to machines, using synonym headers.
func ApplicationSheet() Sheet {
	return Sheet{
		Headers: []string{"Code", "Brand", "Reference"},
		Rows: [][]string{
			{"123", "Fiat", "Ducato 2.3"},
			{"0456", "Iveco", "Daily 35"},
			{"456", "Iveco", "Daily 50"},
		},
	}
}

// ERPSheet is an ERP export with one low-cardinality, one constant and one
// wide column besides the material code.
func ERPSheet(rows int) Sheet {
	s := Sheet{Headers: []string{"Material Code", "Plant", "Company", "Batch"}}
	for i := 0; i < rows; i++ {
		s.Rows = append(s.Rows, []string{
			fmt.Sprintf("M%04d", i),
			[]string{"P01", "P02", "P03"}[i%3],
			"ACME",
			fmt.Sprintf("B%05d", i),
		})
	}
	return s
}

// ExplodedSheet is an exploded-view catalog.
func ExplodedSheet() Sheet {
	return Sheet{
		Headers: []string{"codice_ama", "titolo", "parent", "category_name", "link_url"},
		Rows: [][]string{
			{"A1", "Pump", "ROOT", "Hydraulics", "https://example.com/a1"},
			{"A2", "Seal", "A1", "Hydraulics", "https://example.com/a2"},
			{"A3", "Bolt", "A1", "Hardware", "https://example.com/a3"},
			{"A4", "Nut", "A3", "Hardware", ""},
		},
	}
}

// DefaultSources bundles the three mandatory files.
func DefaultSources(tb testing.TB) Sources {
	tb.Helper()
	return Sources{}.
		Add(tb, catalog.RoleProducts, ProductSheet()).
		Add(tb, catalog.RoleReferences, ReferenceSheet()).
		Add(tb, catalog.RoleApplications, ApplicationSheet())
}
