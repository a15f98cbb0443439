package service

import (
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/index"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
)

// Config holds the tunables of a reindex run.
type Config struct {
	Index                 model.IndexSpec
	BatchSize             int
	MaxRetries            int
	BackOffStrategy       string
	BackOffBase           time.Duration
	RefreshEvery          int
	HealthPollInterval    time.Duration
	HealthTimeout         time.Duration
	IndexReadyAttempts    int
	RedRecoveryWait       time.Duration
	DeleteConfirmAttempts int
	DeleteConfirmInterval time.Duration
	ProceedOnRed          bool
	MaxSegments           int
}

func DefaultConfig() Config {
	return Config{
		Index:                 index.ProductIndexSpec(),
		BatchSize:             500,
		MaxRetries:            3,
		BackOffStrategy:       LinearBackOffStrategy,
		BackOffBase:           5 * time.Second,
		RefreshEvery:          2000,
		HealthPollInterval:    3 * time.Second,
		HealthTimeout:         10 * time.Second,
		IndexReadyAttempts:    10,
		RedRecoveryWait:       5 * time.Second,
		DeleteConfirmAttempts: 5,
		DeleteConfirmInterval: 2 * time.Second,
		ProceedOnRed:          false,
		MaxSegments:           1,
	}
}
