package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"goeda/internal"
	"goeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

var logger = internal.DefaultLogger.For("DataReader")

// FileType identifies the container format of an uploaded dataset
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType infers the format from the file name extension
func DetectFileType(filename string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FileTypeCSV, nil
	case ".xlsx", ".xlsm":
		return FileTypeXLSX, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported file type %q: only CSV (.csv) and Excel (.xlsx) files are allowed", filepath.Ext(filename)))
	}
}

// DataReader reads CSV and Excel content into raw string records
type DataReader struct {
	config ReaderConfig
}

// NewDataReader creates a reader with the given configuration
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{config: config}
}

// Read parses the content of filename from r. The file type is taken from the extension.
func (dr *DataReader) Read(filename string, r io.Reader) (*RawData, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var data *RawData
	switch fileType {
	case FileTypeCSV:
		data, err = dr.readCSV(r)
	case FileTypeXLSX:
		data, err = dr.readExcel(r)
	}
	if err != nil {
		return nil, err
	}
	data.Name = filepath.Base(filename)

	logger.Info("%s file %s read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(fileType)), data.Name, float64(time.Since(start).Nanoseconds())/1e6,
		len(data.Headers), len(data.Rows))
	return data, nil
}

// ReadBytes is Read over an in-memory buffer
func (dr *DataReader) ReadBytes(filename string, content []byte) (*RawData, error) {
	return dr.Read(filename, bytes.NewReader(content))
}

// readCSV reads CSV data into structured format
func (dr *DataReader) readCSV(r io.Reader) (*RawData, error) {
	reader := csv.NewReader(r)
	if dr.config.Delimiter != 0 {
		reader.Comma = dr.config.Delimiter
	}
	reader.LazyQuotes = dr.config.LazyQuotes
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("failed to read CSV file", err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseError("CSV file is empty: no columns to parse", nil)
	}

	return dr.processRows(rows)
}

// readExcel reads the configured sheet (or the first one) of an XLSX workbook
func (dr *DataReader) readExcel(r io.Reader) (*RawData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ParseError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := dr.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.ParseError("Excel workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseError(fmt.Sprintf("sheet %q is empty: no columns to parse", sheet), nil)
	}

	return dr.processRows(rows)
}

// processRows splits off the header row and squares up ragged rows.
// Excel drops trailing empty cells, so short rows are padded with "". Rows wider
// than the header extend it with blank names.
func (dr *DataReader) processRows(rows [][]string) (*RawData, error) {
	headers := append([]string(nil), rows[0]...)
	body := rows[1:]
	if dr.config.MaxRows > 0 && len(body) > dr.config.MaxRows {
		logger.Warn("truncating dataset from %d to %d rows", len(body), dr.config.MaxRows)
		body = body[:dr.config.MaxRows]
	}

	width := len(headers)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(headers) < width {
		headers = append(headers, "")
	}

	data := &RawData{
		Headers: headers,
		Rows:    make([][]string, 0, len(body)),
	}
	for _, row := range body {
		if len(row) == 0 {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		data.Rows = append(data.Rows, padded)
	}
	return data, nil
}
