package model

// ErrorResponse is the error body Elasticsearch returns for failed API calls.
type ErrorResponse struct {
	Error  ErrorCause `json:"error"`
	Status int        `json:"status"`
}

type ErrorCause struct {
	Type      string       `json:"type"`
	Reason    string       `json:"reason"`
	Index     string       `json:"index,omitempty"`
	RootCause []ErrorCause `json:"root_cause,omitempty"`
}
