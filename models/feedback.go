package models

// Committees lists the rated committees in their fixed column order.
var Committees = []string{
	"medical",
	"technical",
	"program",
	"stage",
	"food",
	"accommodation",
	"registration",
	"maintenance",
	"documentation",
}

// HeaderLabels are the spreadsheet column headers, written once when the sheet is created.
var HeaderLabels = []string{
	"Timestamp",
	"Medical Committee",
	"Technical and Sound Committee",
	"Program Committee",
	"Stage Committee",
	"Food Committee",
	"Accommodation Committee",
	"Registration Committee",
	"Maintenance Committee",
	"Documentation Committee",
	"Testimony & Suggestions",
}

// Submission is one feedback payload as received from either transport.
// Rating values are kept raw (number, string or null) until row formatting
// so both transports share the same coercion.
type Submission struct {
	Ratings   map[string]interface{} `json:"ratings"`
	Testimony string                 `json:"testimony"`
	Timestamp string                 `json:"timestamp"`
}

// SubmitResponse is the fixed envelope returned by every feedback endpoint.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RowNumber int64  `json:"rowNumber,omitempty"`
}

// HealthResponse reports whether the spreadsheet is reachable.
type HealthResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Spreadsheet string   `json:"spreadsheet,omitempty"`
	Sheets      []string `json:"sheets,omitempty"`
	Version     string   `json:"version,omitempty"`
}
