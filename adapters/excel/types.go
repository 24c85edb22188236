package excel

// RawData is a parsed but untyped dataset: a header row and square string rows
type RawData struct {
	Name    string     // Base file name
	Headers []string   // Column headers, possibly blank or repeated
	Rows    [][]string // Data rows, each len(Headers) wide
}
