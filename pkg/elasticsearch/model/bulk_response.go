package model

// BulkResponse is the body returned by the _bulk endpoint. Each item is keyed by its action
// name ("index", "create", "update", "delete").
type BulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

type BulkItem struct {
	Index  string     `json:"_index"`
	ID     string     `json:"_id"`
	Result string     `json:"result"`
	Status int        `json:"status"`
	Error  *ItemError `json:"error,omitempty"`
}

type ItemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Item returns the single action result held by entry.
func Item(entry map[string]BulkItem) (BulkItem, bool) {
	for _, item := range entry {
		return item, true
	}
	return BulkItem{}, false
}
