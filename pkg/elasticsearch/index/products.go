package index

import "github.com/Avi18971911/product-reindexer/pkg/reindex/model"

const ProductIndexName = "products"

// ProductIndexSpec is tuned for a single-node deployment: one primary, no replicas and a slow
// refresh interval while the bulk load runs. Callers override the numbers from configuration.
func ProductIndexSpec() model.IndexSpec {
	return model.IndexSpec{
		Name:                ProductIndexName,
		Shards:              1,
		Replicas:            0,
		RefreshInterval:     "30s",
		WaitForActiveShards: 1,
		Fields: map[string]model.FieldMapping{
			"name": {
				Type:     "text",
				Analyzer: "standard",
			},
			"price": {
				Type: "float",
			},
			"created_at": {
				Type: "date",
			},
			"description": {
				Type:     "text",
				Analyzer: "standard",
			},
		},
	}
}
