package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
)

func (c *IndexClientImpl) Bulk(
	ctx context.Context,
	metaInfo []MetaMap,
	documentInfo []DocumentMap,
	index string,
) (model.BulkResponse, error) {
	var buf bytes.Buffer
	for i, doc := range documentInfo {
		var meta MetaMap
		if i < len(metaInfo) && metaInfo[i] != nil {
			meta = metaInfo[i]
		} else {
			meta = MetaMap{"index": map[string]interface{}{}}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return model.BulkResponse{}, fmt.Errorf("error marshaling meta to bulk index: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		docJSON, err := json.Marshal(doc)
		if err != nil {
			return model.BulkResponse{}, fmt.Errorf("error marshaling data to bulk index: %w", err)
		}
		buf.Write(docJSON)
		buf.WriteByte('\n')
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithRefresh(c.refreshRate),
	)
	if err != nil {
		return model.BulkResponse{}, fmt.Errorf("error bulk indexing: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return model.BulkResponse{}, newResponseError("bulk", res)
	}

	var bulkResponse model.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return model.BulkResponse{}, fmt.Errorf("failed to decode bulk response: %w", err)
	}
	return bulkResponse, nil
}
