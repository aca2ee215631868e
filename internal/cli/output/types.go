package output

// ReportOutput is the JSON form of a scan.
type ReportOutput struct {
	ScanID            string              `json:"scanId,omitempty"`
	Root              string              `json:"root"`
	Status            string              `json:"status"`
	Aborted           string              `json:"aborted,omitempty"`
	Summary           ReportSummary       `json:"summary"`
	ValidSchemas      map[string][]string `json:"validSchemas"`
	ValidExamples     map[string][]string `json:"validExamples"`
	SupportedExamples map[string][]string `json:"supportedExamples"`
	Warnings          map[string][]string `json:"warnings"`
	Errors            map[string][]string `json:"errors"`
}

// ReportSummary counts the messages of a scan by kind.
type ReportSummary struct {
	Models            int `json:"models"`
	ValidSchemas      int `json:"validSchemas"`
	ValidExamples     int `json:"validExamples"`
	SupportedExamples int `json:"supportedExamples"`
	Warnings          int `json:"warnings"`
	Errors            int `json:"errors"`
}

// CheckOutput describes one registered check.
type CheckOutput struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Description string `json:"description"`
	Root        bool   `json:"root"`
	Enabled     bool   `json:"enabled"`
}

// ChecksOutput is the JSON form of the checks listing.
type ChecksOutput struct {
	Checks []CheckOutput `json:"checks"`
	Count  int           `json:"count"`
}

// ScanOutput is the JSON form of one recorded scan.
type ScanOutput struct {
	ID          string `json:"id"`
	Root        string `json:"root"`
	Status      string `json:"status"`
	StartedAt   string `json:"startedAt"`
	CompletedAt string `json:"completedAt,omitempty"`
	Warnings    int    `json:"warnings"`
	Errors      int    `json:"errors"`
}

// HistoryOutput is the JSON form of the scan history.
type HistoryOutput struct {
	Scans []ScanOutput `json:"scans"`
}

// ScanMessageOutput is one stored message of a scan.
type ScanMessageOutput struct {
	Kind    string `json:"kind"`
	Model   string `json:"model"`
	Message string `json:"message"`
}

// ScanDetailOutput is the JSON form of a single scan with its messages.
type ScanDetailOutput struct {
	Scan     ScanOutput          `json:"scan"`
	Messages []ScanMessageOutput `json:"messages"`
}
