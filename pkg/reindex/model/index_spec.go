package model

type FieldMapping struct {
	Type     string
	Analyzer string
}

// IndexSpec describes how an index is (re)created. It is built once per run and never mutated.
type IndexSpec struct {
	Name                string
	Shards              int
	Replicas            int
	RefreshInterval     string
	WaitForActiveShards int
	Fields              map[string]FieldMapping
}

// Body renders the create-index request body.
func (s IndexSpec) Body() map[string]interface{} {
	settings := map[string]interface{}{
		"number_of_shards":   s.Shards,
		"number_of_replicas": s.Replicas,
	}
	if s.RefreshInterval != "" {
		settings["refresh_interval"] = s.RefreshInterval
	}
	if s.WaitForActiveShards > 0 {
		settings["index.write.wait_for_active_shards"] = s.WaitForActiveShards
	}

	properties := make(map[string]interface{}, len(s.Fields))
	for name, field := range s.Fields {
		mapping := map[string]interface{}{
			"type": field.Type,
		}
		if field.Analyzer != "" {
			mapping["analyzer"] = field.Analyzer
		}
		properties[name] = mapping
	}

	return map[string]interface{}{
		"settings": settings,
		"mappings": map[string]interface{}{
			"properties": properties,
		},
	}
}
