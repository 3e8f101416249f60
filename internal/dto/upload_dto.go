package dto

// Outcome classifies one upload row after reconciliation.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeInvalid   Outcome = "invalid"
)

// RowResult is the per-row outcome reported back to the caller. Line is the
// 1-based sheet row. ChangedFields is present only for updated rows; Error
// only for invalid ones.
type RowResult struct {
	Line          int      `json:"line"`
	VIN           string   `json:"vin,omitempty"`
	Outcome       Outcome  `json:"outcome"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// UploadSummary is the response of POST /api/:generation/upload.
// Counts always add up to the number of distinct reported rows, even when
// some rows failed validation.
type UploadSummary struct {
	FileName  string      `json:"file_name"`
	Created   int         `json:"created"`
	Updated   int         `json:"updated"`
	Unchanged int         `json:"unchanged"`
	Invalid   int         `json:"invalid"`
	Results   []RowResult `json:"results"`
	Files     []string    `json:"files"`
}
