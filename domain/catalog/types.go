package catalog

import (
	"fmt"
	"strings"
)

// Role is the logical part a spreadsheet plays in the dashboard.
type Role string

const (
	RoleProducts     Role = "products"
	RoleReferences   Role = "references"
	RoleApplications Role = "applications"
	RoleERPExport    Role = "erp_export"
	RoleExplodedView Role = "exploded_view"
)

// Roles lists every role in upload order.
var Roles = []Role{RoleProducts, RoleReferences, RoleApplications, RoleERPExport, RoleExplodedView}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown table role %q", s)
}

// Mandatory reports whether the dashboard cannot start without this file.
func (r Role) Mandatory() bool {
	switch r {
	case RoleProducts, RoleReferences, RoleApplications:
		return true
	}
	return false
}

// IsReferenceLike reports roles shaped as (code, brand, relation code) rows.
func (r Role) IsReferenceLike() bool {
	return r == RoleReferences || r == RoleApplications
}

func (r Role) String() string { return string(r) }

// Logical column names, already in normalized header form.
const (
	ColProductCode  = "product_code"
	ColCategoryText = "category_text"
	ColCode         = "code"
	ColCompanyName  = "company_name"
	ColRelationCode = "relation_code"

	ColCodiceAMA    = "codice_ama"
	ColTitolo       = "titolo"
	ColParent       = "parent"
	ColCategoryName = "category_name"
	ColLinkURL      = "link_url"
)

// Synonym lists in priority order; first match wins.
var (
	CodeSynonyms      = []string{ColCode, "codice", "sku", "item_code"}
	BrandSynonyms     = []string{ColCompanyName, "brand", "brand_name", "marca", "produttore", "manufacturer"}
	ReferenceSynonyms = []string{ColRelationCode, "reference", "reference_code", "riferimento", "codice_riferimento", "oem_code"}
	MaterialSynonyms  = []string{"material_code", "materialcode", "codice_materiale", "material", "materiale", "codice"}
)

// ProductBasicColumns is the subset loaded to populate the selectors.
var ProductBasicColumns = []string{ColProductCode, ColCategoryText}

// ExplodedViewColumns is the exact column set the exploded-view catalog must carry.
var ExplodedViewColumns = []string{ColCodiceAMA, ColTitolo, ColParent, ColCategoryName, ColLinkURL}
