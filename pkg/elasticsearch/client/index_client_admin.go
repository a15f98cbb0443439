package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

func (c *IndexClientImpl) ClusterHealth(
	ctx context.Context,
	req HealthRequest,
) (model.ClusterHealthResponse, error) {
	opts := []func(*esapi.ClusterHealthRequest){
		c.es.Cluster.Health.WithContext(ctx),
	}
	if req.Index != "" {
		opts = append(opts, c.es.Cluster.Health.WithIndex(req.Index))
	}
	if req.WaitForStatus != "" {
		opts = append(opts, c.es.Cluster.Health.WithWaitForStatus(req.WaitForStatus))
	}
	if req.Timeout > 0 {
		opts = append(opts, c.es.Cluster.Health.WithTimeout(req.Timeout))
	}

	res, err := c.es.Cluster.Health(opts...)
	if err != nil {
		return model.ClusterHealthResponse{}, fmt.Errorf("failed to get cluster health: %w", err)
	}
	defer res.Body.Close()

	// wait_for_status answers 408 with a regular health body when the status was not reached in time
	if res.IsError() && res.StatusCode != http.StatusRequestTimeout {
		return model.ClusterHealthResponse{}, newResponseError("cluster health", res)
	}

	var health model.ClusterHealthResponse
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return model.ClusterHealthResponse{}, fmt.Errorf("failed to decode cluster health response: %w", err)
	}
	return health, nil
}

func (c *IndexClientImpl) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check existence of index %s: %w", index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, newResponseError("index exists", res)
	}
}

func (c *IndexClientImpl) DeleteIndex(ctx context.Context, index string) error {
	res, err := c.es.Indices.Delete(
		[]string{index},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return newResponseError("delete index", res)
	}
	return nil
}

func (c *IndexClientImpl) CreateIndex(
	ctx context.Context,
	index string,
	body map[string]interface{},
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling index body for %s: %w", index, err)
	}

	res, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithBody(bytes.NewReader(payload)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return newResponseError("create index", res)
	}
	return nil
}

func (c *IndexClientImpl) Refresh(ctx context.Context, index string) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithIndex(index),
		c.es.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return newResponseError("refresh", res)
	}
	return nil
}

func (c *IndexClientImpl) ForceMerge(ctx context.Context, index string, maxSegments int) error {
	res, err := c.es.Indices.Forcemerge(
		c.es.Indices.Forcemerge.WithIndex(index),
		c.es.Indices.Forcemerge.WithMaxNumSegments(maxSegments),
		c.es.Indices.Forcemerge.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to force merge index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return newResponseError("force merge", res)
	}
	return nil
}
