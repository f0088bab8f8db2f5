package excel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"partsdash/domain/core"
	"partsdash/domain/table"
	"partsdash/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV streams
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{
		config: config,
		logger: internal.DefaultLogger.Named("DataReader"),
	}
}

// DetectFileType picks the decoder from the file name, confirmed against the
// leading bytes so a renamed file fails fast instead of half-decoding.
func DetectFileType(name string, data []byte) (FileType, error) {
	isZip := bytes.HasPrefix(data, zipMagic)
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".xlsx", ".xlsm":
		if !isZip {
			return "", core.NewUnsupportedFormatError(name, "content is not an OOXML workbook")
		}
		return FileTypeXLSX, nil
	case ".xls":
		if isZip {
			return FileTypeXLSX, nil
		}
		if bytes.HasPrefix(data, oleMagic) {
			return "", core.NewUnsupportedFormatError(name, "legacy .xls workbooks are not supported, save as .xlsx")
		}
		return "", core.NewUnsupportedFormatError(name, "content is not a workbook")
	case ".csv":
		if isZip || bytes.HasPrefix(data, oleMagic) {
			return "", core.NewUnsupportedFormatError(name, "binary content in a .csv file")
		}
		return FileTypeCSV, nil
	case "":
		if isZip {
			return FileTypeXLSX, nil
		}
		return "", core.NewUnsupportedFormatError(name, "no file extension")
	default:
		return "", core.NewUnsupportedFormatError(name, fmt.Sprintf("extension %s", ext))
	}
}

// ReadTable reads the whole stream and decodes it into raw cells.
func (r *DataReader) ReadTable(ctx context.Context, name string, rd io.Reader) (*table.Raw, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	fileType, err := DetectFileType(name, data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	var rows [][]string
	switch fileType {
	case FileTypeXLSX:
		rows, err = r.readExcelRows(data)
	case FileTypeCSV:
		rows, err = r.readCSVRows(data)
	}
	if err != nil {
		return nil, core.NewUnsupportedFormatError(name, err.Error())
	}
	r.logger.Debug("%s decoded as %s in %.2fms (%d rows)",
		name, fileType, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows), nil
}

// readExcelRows reads the configured (or first) sheet. Raw cell values are
// used so number formats never leak into codes.
func (r *DataReader) readExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// readCSVRows reads CSV data, sniffing the delimiter from the header line.
func (r *DataReader) readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = r.config.Comma
	if reader.Comma == 0 {
		reader.Comma = sniffDelimiter(data)
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab in the first line.
func sniffDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// processRows splits the header from the records and trims every cell.
// Records are padded or cut to the header width.
func (r *DataReader) processRows(rows [][]string) *table.Raw {
	raw := &table.Raw{}
	if len(rows) == 0 {
		return raw
	}

	headerRow := rows[0]
	raw.Headers = make([]string, len(headerRow))
	for i, header := range headerRow {
		raw.Headers[i] = strings.TrimSpace(header)
	}

	raw.Records = make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make([]string, len(raw.Headers))
		blank := true
		for j := 0; j < len(record) && j < len(row); j++ {
			record[j] = strings.TrimSpace(row[j])
			if record[j] != "" {
				blank = false
			}
		}
		if blank && r.config.SkipBlankRows {
			continue
		}
		raw.Records = append(raw.Records, record)
	}
	return raw
}
