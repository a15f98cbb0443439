package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	esModel "github.com/Avi18971911/product-reindexer/pkg/elasticsearch/model"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"go.uber.org/zap"
)

var logger, _ = zap.NewDevelopment()

type bulkFunc func(call int, ids []string) (esModel.BulkResponse, error)

// fakeIndexClient keeps documents in memory keyed by id, like a real index.
type fakeIndexClient struct {
	mu sync.Mutex

	clusterStatuses []string
	clusterErr      error
	indexStatuses   []string
	existsSeq       []bool
	deleteErr       error
	createErr       error
	refreshErr      error
	bulk            bulkFunc

	clusterHealthCalls int
	indexHealthCalls   int
	existsCalls        int
	deleteCalls        int
	createCalls        int
	bulkCalls          int
	refreshCalls       int
	forceMergeCalls    int
	createdBody        map[string]interface{}
	docs               map[string]client.DocumentMap
}

func newFakeIndexClient() *fakeIndexClient {
	return &fakeIndexClient{docs: make(map[string]client.DocumentMap)}
}

func nextStatus(statuses []string, call int) string {
	if len(statuses) == 0 {
		return "green"
	}
	if call >= len(statuses) {
		return statuses[len(statuses)-1]
	}
	return statuses[call]
}

func (f *fakeIndexClient) ClusterHealth(_ context.Context, req client.HealthRequest) (esModel.ClusterHealthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Index == "" {
		call := f.clusterHealthCalls
		f.clusterHealthCalls++
		if f.clusterErr != nil {
			return esModel.ClusterHealthResponse{}, f.clusterErr
		}
		return esModel.ClusterHealthResponse{Status: nextStatus(f.clusterStatuses, call)}, nil
	}
	call := f.indexHealthCalls
	f.indexHealthCalls++
	return esModel.ClusterHealthResponse{Status: nextStatus(f.indexStatuses, call)}, nil
}

func (f *fakeIndexClient) IndexExists(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.existsCalls
	f.existsCalls++
	if len(f.existsSeq) == 0 {
		return false, nil
	}
	if call >= len(f.existsSeq) {
		return f.existsSeq[len(f.existsSeq)-1], nil
	}
	return f.existsSeq[call], nil
}

func (f *fakeIndexClient) DeleteIndex(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeIndexClient) CreateIndex(_ context.Context, _ string, body map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.createdBody = body
	return f.createErr
}

func (f *fakeIndexClient) Bulk(
	_ context.Context,
	metaInfo []client.MetaMap,
	documentInfo []client.DocumentMap,
	_ string,
) (esModel.BulkResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.bulkCalls
	f.bulkCalls++

	ids := make([]string, len(metaInfo))
	for i, meta := range metaInfo {
		action := meta["index"].(map[string]interface{})
		ids[i] = fmt.Sprint(action["_id"])
	}

	res := successResponse(ids)
	if f.bulk != nil {
		var err error
		res, err = f.bulk(call, ids)
		if err != nil {
			return esModel.BulkResponse{}, err
		}
	}
	for i, entry := range res.Items {
		if item, ok := esModel.Item(entry); ok && item.Error == nil {
			f.docs[ids[i]] = documentInfo[i]
		}
	}
	return res, nil
}

func (f *fakeIndexClient) Refresh(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refreshErr
}

func (f *fakeIndexClient) ForceMerge(_ context.Context, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forceMergeCalls++
	return nil
}

func (f *fakeIndexClient) Count(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.docs)), nil
}

func successResponse(ids []string) esModel.BulkResponse {
	items := make([]map[string]esModel.BulkItem, len(ids))
	for i, id := range ids {
		items[i] = map[string]esModel.BulkItem{"index": {ID: id, Status: 201, Result: "created"}}
	}
	return esModel.BulkResponse{Items: items}
}

// responseWithErrors fails the given ids with errType/reason and succeeds the others.
func responseWithErrors(ids []string, failing map[string]bool, errType string, reason string) esModel.BulkResponse {
	res := successResponse(ids)
	for i, id := range ids {
		if failing[id] {
			res.Errors = true
			res.Items[i] = map[string]esModel.BulkItem{"index": {
				ID:     id,
				Status: 503,
				Error:  &esModel.ItemError{Type: errType, Reason: reason},
			}}
		}
	}
	return res
}

type fakeSource struct {
	records   []model.SourceRecord
	countErr  error
	pageErrAt int
	pageCalls int
	released  int
	pageSizes []int
}

func newFakeSource(n int) *fakeSource {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := make([]model.SourceRecord, n)
	for i := range records {
		records[i] = model.SourceRecord{
			ID:          fmt.Sprint(i + 1),
			Name:        fmt.Sprintf("Product %d", i+1),
			Price:       9.99,
			CreatedAt:   createdAt,
			Description: "description",
		}
	}
	return &fakeSource{records: records, pageErrAt: -1}
}

func (s *fakeSource) Count(context.Context) (int, error) {
	return len(s.records), s.countErr
}

func (s *fakeSource) Page(_ context.Context, offset int, limit int) ([]model.SourceRecord, error) {
	call := s.pageCalls
	s.pageCalls++
	if call == s.pageErrAt {
		return nil, fmt.Errorf("connection reset")
	}
	if offset >= len(s.records) {
		s.pageSizes = append(s.pageSizes, 0)
		return nil, nil
	}
	end := offset + limit
	if end > len(s.records) {
		end = len(s.records)
	}
	page := append([]model.SourceRecord(nil), s.records[offset:end]...)
	s.pageSizes = append(s.pageSizes, len(page))
	return page, nil
}

func (s *fakeSource) ReleaseReadCache() {
	s.released++
}

type recordingSleeper struct {
	sleeps []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.sleeps = append(r.sleeps, d)
	return ctx.Err()
}

func batchOf(n int) model.RecordBatch {
	return model.RecordBatch{Records: newFakeSource(n).records}
}
