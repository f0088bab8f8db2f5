package excel

// FileType is the decoded container format.
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// zipMagic prefixes every OOXML workbook.
var zipMagic = []byte("PK\x03\x04")

// oleMagic prefixes legacy BIFF (.xls) workbooks.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
