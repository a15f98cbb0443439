package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type MetaMap map[string]interface{}
type DocumentMap map[string]interface{}

// ResponseError is returned when Elasticsearch answers a request with an error status.
type ResponseError struct {
	Op         string
	StatusCode int
	Type       string
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s error: status %d: %s", e.Op, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s error: status %d: %s: %s", e.Op, e.StatusCode, e.Type, e.Reason)
}

func newResponseError(op string, res *esapi.Response) error {
	respErr := &ResponseError{Op: op, StatusCode: res.StatusCode}
	body, err := io.ReadAll(res.Body)
	if err != nil || len(body) == 0 {
		respErr.Reason = res.Status()
		return respErr
	}
	var errorResponse model.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil || errorResponse.Error.Type == "" {
		respErr.Reason = string(body)
		return respErr
	}
	respErr.Type = errorResponse.Error.Type
	respErr.Reason = errorResponse.Error.Reason
	return respErr
}

// ToMetaAndDataMap turns values into bulk index actions. A top-level "_id" field, when present,
// is moved from the document into the action metadata.
func ToMetaAndDataMap[T any](values []T) ([]MetaMap, []DocumentMap, error) {
	dataMap := make([]DocumentMap, len(values))
	metaMap := make([]MetaMap, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		var mapStruct map[string]interface{}
		if err := json.Unmarshal(data, &mapStruct); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal JSON to map: %w", err)
		}

		if id, ok := mapStruct["_id"]; ok {
			delete(mapStruct, "_id")
			metaMap[i] = MetaMap{"index": map[string]interface{}{"_id": id}}
		} else {
			metaMap[i] = MetaMap{"index": map[string]interface{}{}}
		}
		dataMap[i] = mapStruct
	}
	return metaMap, dataMap, nil
}
