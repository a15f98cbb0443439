package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func applyEnv(cfg *Config) error {
	if addresses := envList("ELASTICSEARCH_URL"); len(addresses) > 0 {
		cfg.Elasticsearch.Addresses = addresses
	}
	envString("ELASTICSEARCH_USERNAME", &cfg.Elasticsearch.Username)
	envString("ELASTICSEARCH_PASSWORD", &cfg.Elasticsearch.Password)
	envString("ELASTICSEARCH_API_KEY", &cfg.Elasticsearch.APIKey)

	envString("DATABASE_DRIVER", &cfg.Database.Driver)
	envString("DATABASE_URL", &cfg.Database.URL)
	envString("DATABASE_TABLE", &cfg.Database.Table)

	envString("REINDEX_INDEX_NAME", &cfg.Index.Name)
	envString("REINDEX_INDEX_REFRESH_INTERVAL", &cfg.Index.RefreshInterval)
	envString("REINDEX_BACKOFF_STRATEGY", &cfg.Pipeline.BackOffStrategy)
	envString("REINDEX_REPORT_FILE", &cfg.Report.File)
	envString("REINDEX_REPORT_S3_ENDPOINT", &cfg.Report.S3.Endpoint)
	envString("REINDEX_REPORT_S3_ACCESS_KEY", &cfg.Report.S3.AccessKey)
	envString("REINDEX_REPORT_S3_SECRET_KEY", &cfg.Report.S3.SecretKey)
	envString("REINDEX_REPORT_S3_BUCKET", &cfg.Report.S3.Bucket)
	envString("REINDEX_REPORT_S3_PREFIX", &cfg.Report.S3.Prefix)
	envString("REINDEX_REPORT_S3_REGION", &cfg.Report.S3.Region)

	ints := map[string]*int{
		"REINDEX_INDEX_SHARDS":    &cfg.Index.Shards,
		"REINDEX_INDEX_REPLICAS":  &cfg.Index.Replicas,
		"REINDEX_BATCH_SIZE":      &cfg.Pipeline.BatchSize,
		"REINDEX_MAX_RETRIES":     &cfg.Pipeline.MaxRetries,
		"REINDEX_REFRESH_EVERY":   &cfg.Pipeline.RefreshEvery,
		"REINDEX_READY_ATTEMPTS":  &cfg.Pipeline.IndexReadyAttempts,
		"REINDEX_MAX_SEGMENTS":    &cfg.Pipeline.MaxSegments,
		"REINDEX_DELETE_ATTEMPTS": &cfg.Pipeline.DeleteConfirmAttempts,
	}
	for key, target := range ints {
		if err := envInt(key, target); err != nil {
			return err
		}
	}

	durations := map[string]*time.Duration{
		"DATABASE_PING_TIMEOUT":        &cfg.Database.PingTimeout,
		"REINDEX_BACKOFF_BASE":         &cfg.Pipeline.BackOffBase,
		"REINDEX_HEALTH_POLL_INTERVAL": &cfg.Pipeline.HealthPollInterval,
		"REINDEX_HEALTH_TIMEOUT":       &cfg.Pipeline.HealthTimeout,
		"REINDEX_RED_RECOVERY_WAIT":    &cfg.Pipeline.RedRecoveryWait,
		"REINDEX_DELETE_INTERVAL":      &cfg.Pipeline.DeleteConfirmInterval,
	}
	for key, target := range durations {
		if err := envDuration(key, target); err != nil {
			return err
		}
	}

	if err := envBool("REINDEX_PROCEED_ON_RED", &cfg.Pipeline.ProceedOnRed); err != nil {
		return err
	}
	return envBool("REINDEX_REPORT_S3_USE_SSL", &cfg.Report.S3.UseSSL)
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func envString(key string, target *string) {
	if value, ok := lookup(key); ok {
		*target = value
	}
}

func envList(key string) []string {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, target *int) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}

func envDuration(key string, target *time.Duration) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a duration: %w", key, err)
	}
	*target = parsed
	return nil
}

func envBool(key string, target *bool) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	*target = parsed
	return nil
}
