package model

import "time"

// TimestampLayout is the textual form of CreatedAt in indexed documents.
const TimestampLayout = time.RFC3339

type SourceRecord struct {
	ID          string
	Name        string
	Price       float64
	CreatedAt   time.Time
	Description string
}

// ProductDocument is the indexed form of a SourceRecord. The _id field is lifted into the
// bulk action metadata and never stored in the document body.
type ProductDocument struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"created_at"`
	Description string  `json:"description"`
}

func (r SourceRecord) ToDocument() ProductDocument {
	return ProductDocument{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt.Format(TimestampLayout),
		Description: r.Description,
	}
}

type RecordBatch struct {
	Offset  int
	Records []SourceRecord
}

func (b RecordBatch) Len() int {
	return len(b.Records)
}

func (b RecordBatch) IDs() []string {
	ids := make([]string, len(b.Records))
	for i, record := range b.Records {
		ids[i] = record.ID
	}
	return ids
}

func (b RecordBatch) Documents() []ProductDocument {
	docs := make([]ProductDocument, len(b.Records))
	for i, record := range b.Records {
		docs[i] = record.ToDocument()
	}
	return docs
}
