package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductIndexSpec(t *testing.T) {
	t.Run("should render settings and mappings for a single node", func(t *testing.T) {
		body := ProductIndexSpec().Body()

		settings := body["settings"].(map[string]interface{})
		assert.Equal(t, 1, settings["number_of_shards"])
		assert.Equal(t, 0, settings["number_of_replicas"])
		assert.Equal(t, "30s", settings["refresh_interval"])
		assert.Equal(t, 1, settings["index.write.wait_for_active_shards"])

		properties := body["mappings"].(map[string]interface{})["properties"].(map[string]interface{})
		assert.Len(t, properties, 4)
		assert.Equal(t, map[string]interface{}{"type": "text", "analyzer": "standard"}, properties["name"])
		assert.Equal(t, map[string]interface{}{"type": "float"}, properties["price"])
		assert.Equal(t, map[string]interface{}{"type": "date"}, properties["created_at"])
	})

	t.Run("should omit unset optional settings", func(t *testing.T) {
		spec := ProductIndexSpec()
		spec.RefreshInterval = ""
		spec.WaitForActiveShards = 0
		settings := spec.Body()["settings"].(map[string]interface{})
		assert.NotContains(t, settings, "refresh_interval")
		assert.NotContains(t, settings, "index.write.wait_for_active_shards")
	})
}
