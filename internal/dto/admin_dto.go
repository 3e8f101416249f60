package dto

// DeleteAllConfirmPhrase is the exact token delete-all demands. A typed
// phrase, not a boolean, so the endpoint cannot be triggered by accident.
const DeleteAllConfirmPhrase = "delete"

// DeleteAllRequest is the body of POST /api/:generation/delete-all-records.
type DeleteAllRequest struct {
	Confirm string `json:"confirm" validate:"required"`
}

// MessageResponse is returned by administrative mutations.
type MessageResponse struct {
	Message      string `json:"message"`
	RowsAffected int64  `json:"rows_affected"`
}
