package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/service"
)

func (c Config) Validate() error {
	var errs []error
	if len(c.Elasticsearch.Addresses) == 0 {
		errs = append(errs, errors.New("elasticsearch.addresses must not be empty"))
	}
	if err := c.SourceConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if c.Index.Name == "" || c.Index.Name != strings.ToLower(c.Index.Name) {
		errs = append(errs, fmt.Errorf("index.name must be a non-empty lowercase name, got %q", c.Index.Name))
	}
	if c.Index.Shards < 1 {
		errs = append(errs, errors.New("index.shards must be >= 1"))
	}
	if c.Index.Replicas < 0 {
		errs = append(errs, errors.New("index.replicas must be >= 0"))
	}

	p := c.Pipeline
	if p.BatchSize < 1 {
		errs = append(errs, errors.New("pipeline.batch_size must be >= 1"))
	}
	if p.MaxRetries < 1 {
		errs = append(errs, errors.New("pipeline.max_retries must be >= 1"))
	}
	if p.RefreshEvery < 0 {
		errs = append(errs, errors.New("pipeline.refresh_every must be >= 0"))
	}
	if p.IndexReadyAttempts < 1 {
		errs = append(errs, errors.New("pipeline.index_ready_attempts must be >= 1"))
	}
	if p.DeleteConfirmAttempts < 0 {
		errs = append(errs, errors.New("pipeline.delete_confirm_attempts must be >= 0"))
	}
	if p.MaxSegments < 1 {
		errs = append(errs, errors.New("pipeline.max_segments must be >= 1"))
	}
	if p.BackOffBase < 0 || p.HealthPollInterval < 0 || p.HealthTimeout < 0 ||
		p.RedRecoveryWait < 0 || p.DeleteConfirmInterval < 0 {
		errs = append(errs, errors.New("pipeline durations must not be negative"))
	}
	if _, err := service.NewRetryBackOff(p.BackOffStrategy, p.BackOffBase); err != nil {
		errs = append(errs, fmt.Errorf("pipeline.backoff_strategy: %w", err))
	}

	if objectStore, enabled := c.ObjectStoreConfig(); enabled {
		if err := objectStore.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("report.s3: %w", err))
		}
	}
	return errors.Join(errs...)
}
