package excel

// ReaderConfig holds configuration for spreadsheet decoding
type ReaderConfig struct {
	// SheetName selects the worksheet; empty means the first sheet.
	SheetName string `json:"sheet_name"`
	// Comma forces the CSV delimiter; 0 auto-detects among ',', ';' and tab.
	Comma rune `json:"comma"`
	// SkipBlankRows drops records whose cells are all empty.
	SkipBlankRows bool `json:"skip_blank_rows"`
}

// DefaultReaderConfig returns sensible defaults for spreadsheet decoding
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		SkipBlankRows: true,
	}
}
