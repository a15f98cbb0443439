package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *IndexClientImpl {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{server.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return NewIndexClientImpl(es, Async)
}

func TestIndexClientImpl_ClusterHealth(t *testing.T) {
	t.Run("should pass index scope and wait parameters", func(t *testing.T) {
		var gotPath, gotQuery string
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"cluster_name":"docker","status":"yellow","timed_out":false}`))
		})

		health, err := ic.ClusterHealth(context.Background(), HealthRequest{
			Index:         "products",
			WaitForStatus: "yellow",
			Timeout:       10 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "yellow", health.Status)
		assert.Equal(t, "/_cluster/health/products", gotPath)
		assert.Contains(t, gotQuery, "wait_for_status=yellow")
		assert.Contains(t, gotQuery, "timeout=10000ms")
	})

	t.Run("should decode the body of a wait_for_status timeout", func(t *testing.T) {
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusRequestTimeout)
			_, _ = w.Write([]byte(`{"cluster_name":"docker","status":"red","timed_out":true}`))
		})

		health, err := ic.ClusterHealth(context.Background(), HealthRequest{Index: "products", WaitForStatus: "yellow"})
		require.NoError(t, err)
		assert.Equal(t, "red", health.Status)
		assert.True(t, health.TimedOut)
	})

	t.Run("should return a response error on other failures", func(t *testing.T) {
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"type":"master_not_discovered_exception","reason":"no master"},"status":503}`))
		})

		_, err := ic.ClusterHealth(context.Background(), HealthRequest{})
		var respErr *ResponseError
		require.True(t, errors.As(err, &respErr))
		assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)
		assert.Equal(t, "master_not_discovered_exception", respErr.Type)
	})
}

func TestIndexClientImpl_IndexLifecycle(t *testing.T) {
	t.Run("should report existence from the status code", func(t *testing.T) {
		exists := true
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			if !exists {
				w.WriteHeader(http.StatusNotFound)
			}
		})

		ok, err := ic.IndexExists(context.Background(), "products")
		require.NoError(t, err)
		assert.True(t, ok)

		exists = false
		ok, err = ic.IndexExists(context.Background(), "products")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should treat deleting a missing index as success", func(t *testing.T) {
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception","reason":"no such index [products]"},"status":404}`))
		})

		assert.NoError(t, ic.DeleteIndex(context.Background(), "products"))
	})

	t.Run("should send the index body and surface creation conflicts", func(t *testing.T) {
		var body map[string]interface{}
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/products", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception","reason":"index [products] already exists"},"status":400}`))
		})

		err := ic.CreateIndex(context.Background(), "products", map[string]interface{}{
			"settings": map[string]interface{}{"number_of_shards": 1},
		})
		var respErr *ResponseError
		require.True(t, errors.As(err, &respErr))
		assert.Equal(t, "resource_already_exists_exception", respErr.Type)
		assert.Contains(t, body, "settings")
	})

	t.Run("should request a force merge down to the given segment count", func(t *testing.T) {
		var gotPath, gotQuery string
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
		})

		require.NoError(t, ic.ForceMerge(context.Background(), "products", 1))
		assert.Equal(t, "/products/_forcemerge", gotPath)
		assert.Contains(t, gotQuery, "max_num_segments=1")
	})
}

func TestIndexClientImpl_Bulk(t *testing.T) {
	t.Run("should write ndjson actions and decode item errors", func(t *testing.T) {
		var lines []string
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/_bulk", r.URL.Path)
			scanner := bufio.NewScanner(r.Body)
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			_, _ = w.Write([]byte(`{"took":3,"errors":true,"items":[
				{"index":{"_index":"products","_id":"1","status":201,"result":"created"}},
				{"index":{"_index":"products","_id":"2","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [price]"}}}
			]}`))
		})

		type doc struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		}
		metas, docs, err := ToMetaAndDataMap([]doc{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}})
		require.NoError(t, err)

		res, err := ic.Bulk(context.Background(), metas, docs, "products")
		require.NoError(t, err)
		require.Len(t, lines, 4)
		assert.JSONEq(t, `{"index":{"_id":"1"}}`, lines[0])
		assert.JSONEq(t, `{"name":"a"}`, lines[1])
		assert.True(t, res.Errors)
		require.Len(t, res.Items, 2)
		assert.Nil(t, res.Items[0]["index"].Error)
		assert.Equal(t, "mapper_parsing_exception", res.Items[1]["index"].Error.Type)
	})

	t.Run("should fail the whole request on an error status", func(t *testing.T) {
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"type":"es_rejected_execution_exception","reason":"rejected"},"status":429}`))
		})

		_, err := ic.Bulk(context.Background(), nil, []DocumentMap{{"name": "a"}}, "products")
		assert.ErrorContains(t, err, "es_rejected_execution_exception")
	})
}

func TestIndexClientImpl_Count(t *testing.T) {
	t.Run("should return the document count", func(t *testing.T) {
		ic := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/_count"))
			_, _ = w.Write([]byte(`{"count":1200,"_shards":{"total":1,"successful":1,"skipped":0,"failed":0}}`))
		})

		count, err := ic.Count(context.Background(), "products")
		require.NoError(t, err)
		assert.Equal(t, int64(1200), count)
	})
}

func TestToMetaAndDataMap(t *testing.T) {
	t.Run("should leave metadata empty when there is no id", func(t *testing.T) {
		metas, docs, err := ToMetaAndDataMap([]map[string]interface{}{{"name": "a"}})
		require.NoError(t, err)
		assert.Equal(t, MetaMap{"index": map[string]interface{}{}}, metas[0])
		assert.Equal(t, DocumentMap{"name": "a"}, docs[0])
	})
}
