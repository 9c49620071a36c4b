package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"roster/adapters/coercer"
	"roster/domain/core"
	"roster/domain/ingestion"

	"github.com/xuri/excelize/v2"
)

// DataReader decodes Excel and CSV uploads into typed workbooks
type DataReader struct {
	config ExcelConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	if config.DefaultCSVSheet == "" {
		config.DefaultCSVSheet = DefaultExcelConfig().DefaultCSVSheet
	}
	return &DataReader{config: config}
}

// OpenFile decodes a workbook from disk
func (r *DataReader) OpenFile(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f, filepath.Base(path))
}

// Read decodes a workbook from a stream. Input over MaxUploadBytes fails
// with core.ErrFileTooLarge before any decoding; any decode failure is
// reported as core.ErrUnreadableFile.
func (r *DataReader) Read(src io.Reader, filename string) (*Workbook, error) {
	if r.config.MaxUploadBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(src, r.config.MaxUploadBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filename, err)
		}
		if int64(len(data)) > r.config.MaxUploadBytes {
			return nil, fmt.Errorf("%w: %s is larger than %d bytes", core.ErrFileTooLarge, filename, r.config.MaxUploadBytes)
		}
		src = bytes.NewReader(data)
	}

	fileType := detectFileType(filename)
	log.Printf("[DataReader] Starting to read %s file: %s", fileType, filename)

	var (
		wb  *Workbook
		err error
	)
	switch fileType {
	case "csv":
		wb, err = r.readCSVData(src, filename)
	default:
		wb, err = r.readExcelData(src, filename)
	}
	if err != nil {
		return nil, err
	}
	wb.Filename = filename
	wb.FileType = fileType
	return wb, nil
}

func detectFileType(filename string) string {
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// readExcelData reads every sheet into typed rows
func (r *DataReader) readExcelData(src io.Reader, filename string) (*Workbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrUnreadableFile, filename, err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	names := f.GetSheetList()
	rows := make(map[string][]ingestion.RawRow, len(names))
	for _, name := range names {
		readStart := time.Now()
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", core.ErrUnreadableFile, name, err)
		}

		typed := make([]ingestion.RawRow, len(raw))
		for ri, row := range raw {
			cells := make(ingestion.RawRow, len(row))
			for ci, value := range row {
				cells[ci] = typedCell(f, name, ci, ri, value)
			}
			typed[ri] = cells
		}
		rows[name] = typed
		log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, len(raw))
	}

	return &Workbook{sheets: names, rows: rows}, nil
}

// typedCell tags a raw cell using the cell type recorded in the sheet.
// Numeric cells keep their serial form; date formatting is not applied.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) ingestion.Value {
	if strings.TrimSpace(raw) == "" {
		return ingestion.NewMissingValue()
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ingestion.NewTextValue(raw)
	}
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return ingestion.NewTextValue(raw)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return coercer.CoerceValue(n)
		}
		return ingestion.NewTextValue(raw)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", core.DayLayout} {
			if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return ingestion.NewDateValue(t)
			}
		}
		return ingestion.NewTextValue(raw)
	default:
		return ingestion.NewTextValue(raw)
	}
}

// readCSVData reads a CSV file as a single-sheet workbook
func (r *DataReader) readCSVData(src io.Reader, filename string) (*Workbook, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrUnreadableFile, filename, err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(records))

	typed := make([]ingestion.RawRow, len(records))
	for ri, record := range records {
		cells := make(ingestion.RawRow, len(record))
		for ci, value := range record {
			cells[ci] = coercer.CoerceText(value)
		}
		typed[ri] = cells
	}

	sheet := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if sheet == "" || sheet == "." {
		sheet = r.config.DefaultCSVSheet
	}
	return &Workbook{
		sheets: []string{sheet},
		rows:   map[string][]ingestion.RawRow{sheet: typed},
	}, nil
}
