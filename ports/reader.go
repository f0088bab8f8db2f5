package ports

import (
	"context"
	"io"

	"partsdash/domain/table"
)

// TabularReaderPort decodes one spreadsheet stream into raw header and
// record cells. The name is used only to pick the format.
type TabularReaderPort interface {
	ReadTable(ctx context.Context, name string, r io.Reader) (*table.Raw, error)
}

// TabularWriterPort encodes a table back into a spreadsheet.
type TabularWriterPort interface {
	WriteTable(ctx context.Context, w io.Writer, t *table.Table) error
}
