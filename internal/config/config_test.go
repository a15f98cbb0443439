package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/service"
	"github.com/Avi18971911/product-reindexer/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should return defaults when no file is given", func(t *testing.T) {
		cfg, err := Load("", "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should accept an empty yaml document", func(t *testing.T) {
		path := writeFile(t, "empty.yaml", "")
		cfg, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.Pipeline.BatchSize)
	})

	t.Run("should overlay yaml values including durations", func(t *testing.T) {
		path := writeFile(t, "reindex.yaml", `
elasticsearch:
  addresses: ["http://es-1:9200", "http://es-2:9200"]
database:
  driver: sqlite
  url: file:products.db
index:
  name: products_v2
  replicas: 1
pipeline:
  batch_size: 250
  backoff_strategy: exponential
  backoff_base: 2s
  proceed_on_red: true
`)
		cfg, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"http://es-1:9200", "http://es-2:9200"}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, source.SQLiteDriver, cfg.Database.Driver)
		assert.Equal(t, "products_v2", cfg.Index.Name)
		assert.Equal(t, 1, cfg.Index.Replicas)
		assert.Equal(t, 250, cfg.Pipeline.BatchSize)
		assert.Equal(t, 2*time.Second, cfg.Pipeline.BackOffBase)
		assert.True(t, cfg.Pipeline.ProceedOnRed)
		assert.Equal(t, 3, cfg.Pipeline.MaxRetries)
	})

	t.Run("should reject unknown yaml keys", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "pipeline:\n  batchsize: 10\n")
		_, err := Load(path, "")
		assert.Error(t, err)
	})

	t.Run("should fail on a missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
		assert.Error(t, err)
	})

	t.Run("should ignore a missing env file", func(t *testing.T) {
		_, err := Load("", filepath.Join(t.TempDir(), ".env"))
		assert.NoError(t, err)
	})

	t.Run("should let the environment override the file", func(t *testing.T) {
		path := writeFile(t, "reindex.yaml", "pipeline:\n  batch_size: 250\n")
		t.Setenv("REINDEX_BATCH_SIZE", "100")
		t.Setenv("ELASTICSEARCH_URL", "http://a:9200, http://b:9200")
		t.Setenv("REINDEX_BACKOFF_BASE", "250ms")
		t.Setenv("REINDEX_PROCEED_ON_RED", "true")

		cfg, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Pipeline.BatchSize)
		assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.BackOffBase)
		assert.True(t, cfg.Pipeline.ProceedOnRed)
	})

	t.Run("should read variables from the env file", func(t *testing.T) {
		envFile := writeFile(t, ".env", "REINDEX_INDEX_NAME=products_from_env\n")
		t.Cleanup(func() { _ = os.Unsetenv("REINDEX_INDEX_NAME") })

		cfg, err := Load("", envFile)
		require.NoError(t, err)
		assert.Equal(t, "products_from_env", cfg.Index.Name)
	})

	t.Run("should report malformed env values", func(t *testing.T) {
		t.Setenv("REINDEX_MAX_RETRIES", "three")
		_, err := Load("", "")
		assert.ErrorContains(t, err, "REINDEX_MAX_RETRIES")
	})
}

func TestValidate(t *testing.T) {
	t.Run("should reject a non positive batch size", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.BatchSize = 0
		assert.ErrorContains(t, cfg.Validate(), "batch_size")
	})

	t.Run("should reject zero retries", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.MaxRetries = 0
		assert.ErrorContains(t, cfg.Validate(), "max_retries")
	})

	t.Run("should reject an unknown backoff strategy", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.BackOffStrategy = "fibonacci"
		assert.ErrorContains(t, cfg.Validate(), "backoff_strategy")
	})

	t.Run("should reject an uppercase index name", func(t *testing.T) {
		cfg := Default()
		cfg.Index.Name = "Products"
		assert.ErrorContains(t, cfg.Validate(), "index.name")
	})

	t.Run("should require complete s3 settings once an endpoint is set", func(t *testing.T) {
		cfg := Default()
		cfg.Report.S3.Endpoint = "localhost:9000"
		assert.ErrorContains(t, cfg.Validate(), "report.s3")

		cfg.Report.S3.Bucket = "reports"
		cfg.Report.S3.AccessKey = "minio"
		cfg.Report.S3.SecretKey = "minio123"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should collect every problem", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.BatchSize = -1
		cfg.Database.Driver = "oracle"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "batch_size")
		assert.ErrorContains(t, err, "oracle")
	})
}

func TestServiceConfig(t *testing.T) {
	t.Run("should carry index and pipeline settings into the service config", func(t *testing.T) {
		cfg := Default()
		cfg.Index.Name = "products_v2"
		cfg.Index.Shards = 3
		cfg.Pipeline.RefreshEvery = 1000

		sc := cfg.ServiceConfig()
		assert.Equal(t, "products_v2", sc.Index.Name)
		assert.Equal(t, 3, sc.Index.Shards)
		assert.Equal(t, 1000, sc.RefreshEvery)
		assert.Equal(t, service.LinearBackOffStrategy, sc.BackOffStrategy)
		assert.NotEmpty(t, sc.Index.Fields)
	})

	t.Run("should size the read cache to the batch", func(t *testing.T) {
		cfg := Default()
		cfg.Pipeline.BatchSize = 42
		assert.Equal(t, int64(42), cfg.SourceConfig().CacheSize)
	})
}
