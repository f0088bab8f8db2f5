package ports

import (
	"context"

	"partsdash/domain/catalog"
	"partsdash/domain/core"
	"partsdash/domain/table"
)

// TableSource identifies one uploaded file. Data is never modified.
type TableSource struct {
	Role catalog.Role
	Name string
	Data []byte
}

// Fingerprint returns the content-addressed identity of the source.
func (s TableSource) Fingerprint() core.ContentHash {
	return core.ComputeContentHash(string(s.Role), s.Data)
}

// TableLoaderPort loads a source into a normalized-header table, optionally
// restricted to a column subset. Identical inputs yield the identical table;
// callers must treat the result as read-only.
type TableLoaderPort interface {
	Load(ctx context.Context, src TableSource, columns []string) (*table.Table, error)
}

// SourceSet resolves the file uploaded for a role.
type SourceSet interface {
	Source(role catalog.Role) (TableSource, bool)
}
