package excel

// RawRowData represents a row of raw sheet data as header -> cell pairs
type RawRowData map[string]string

// SheetData is one worksheet read back as headers and rows
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Sheet names of the results workbook
const (
	SummarySheet     = "Summary"
	ComparisonSheet  = "Comparisons"
	HistogramSheet   = "Histograms"
	DefaultWorkbook  = "results.xlsx"
	defaultSheetName = "Sheet1"
)

var (
	summaryHeaders    = []string{"experiment", "label", "statistic", "median", "error", "lower", "upper"}
	comparisonHeaders = []string{"name", "x", "y", "statistic", "kind", "median", "error", "lower", "upper"}
	histogramHeaders  = []string{"histogram", "experiment", "bin", "lower", "upper", "median", "error"}
)
