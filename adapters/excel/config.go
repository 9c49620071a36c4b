package excel

// ExcelConfig holds limits for workbook decoding
type ExcelConfig struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	// DefaultCSVSheet names the single sheet of a CSV file without a usable filename
	DefaultCSVSheet string `json:"default_csv_sheet"`
}

// DefaultExcelConfig returns sensible defaults for workbook processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		MaxUploadBytes:  50 * 1024 * 1024,
		DefaultCSVSheet: "Sheet1",
	}
}
