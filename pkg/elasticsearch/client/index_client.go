package client

import (
	"context"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8"
)

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate Refresh the relevant primary and replica shards (not the whole index) immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async Take no refresh related actions. The changes made by this request will be made visible at some point after the request returns.
	Async RefreshRate = "false"
)

// HealthRequest scopes a cluster health call. An empty Index asks for the whole cluster.
type HealthRequest struct {
	Index         string
	WaitForStatus string
	Timeout       time.Duration
}

type IndexClient interface {
	// ClusterHealth returns the cluster health, or the health of a single index when req.Index is set
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/cluster-health.html
	ClusterHealth(ctx context.Context, req HealthRequest) (model.ClusterHealthResponse, error)
	// IndexExists checks whether the index exists
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-exists.html
	IndexExists(ctx context.Context, index string) (bool, error)
	// DeleteIndex deletes the index. Deleting a missing index is not an error.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-delete-index.html
	DeleteIndex(ctx context.Context, index string) error
	// CreateIndex creates the index with the given settings and mappings body
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-create-index.html
	CreateIndex(ctx context.Context, index string, body map[string]interface{}) error
	// Bulk submits one index action per document and returns the per-item results
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-bulk.html
	Bulk(ctx context.Context, metaInfo []MetaMap, documentInfo []DocumentMap, index string) (model.BulkResponse, error)
	// Refresh makes recent writes visible to search
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-refresh.html
	Refresh(ctx context.Context, index string) error
	// ForceMerge merges the index down to at most maxSegments segments per shard
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-forcemerge.html
	ForceMerge(ctx context.Context, index string, maxSegments int) error
	// Count counts the documents in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, index string) (int64, error)
}

type IndexClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewIndexClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *IndexClientImpl {
	return &IndexClientImpl{es: es, refreshRate: string(refreshRate)}
}
