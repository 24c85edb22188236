package excel

// ReaderConfig controls how raw dataset files are parsed
type ReaderConfig struct {
	// Delimiter for CSV files
	Delimiter rune `json:"delimiter"`
	// LazyQuotes tolerates bare quotes inside unquoted CSV fields
	LazyQuotes bool `json:"lazy_quotes"`
	// Sheet to read from XLSX workbooks; empty means the first sheet
	Sheet string `json:"sheet"`
	// MaxRows caps the number of data rows kept; 0 means unlimited
	MaxRows int `json:"max_rows"`
}

// DefaultReaderConfig returns the settings matching a plain comma separated file
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter: ',',
	}
}
