package service

import (
	"context"
	"time"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"go.uber.org/zap"
)

// healthCallGrace is added on top of the server-side health timeout for the HTTP round trip.
const healthCallGrace = 5 * time.Second

// RedClusterDecider is asked whether to continue when the cluster stays red.
type RedClusterDecider func(ctx context.Context, status model.ClusterHealthStatus) bool

func ProceedOnRed(proceed bool) RedClusterDecider {
	return func(context.Context, model.ClusterHealthStatus) bool {
		return proceed
	}
}

type HealthGate interface {
	// CheckClusterHealth returns the overall cluster status or a ConnectivityError.
	CheckClusterHealth(ctx context.Context) (model.ClusterHealthStatus, error)
	// WaitForIndexReady polls the index health until it is green or yellow. A false result is a
	// risk signal only; the error is non-nil only when ctx is done.
	WaitForIndexReady(ctx context.Context, index string, maxAttempts int) (bool, error)
	// EnsureClusterUsable fails when the cluster is unreachable, or red and the decider refuses.
	EnsureClusterUsable(ctx context.Context) error
}

type HealthGateImpl struct {
	ic              client.IndexClient
	pollInterval    time.Duration
	requestTimeout  time.Duration
	redRecoveryWait time.Duration
	decideOnRed     RedClusterDecider
	sleep           Sleeper
	logger          *zap.Logger
}

func NewHealthGateImpl(
	ic client.IndexClient,
	pollInterval time.Duration,
	requestTimeout time.Duration,
	redRecoveryWait time.Duration,
	decideOnRed RedClusterDecider,
	sleep Sleeper,
	logger *zap.Logger,
) *HealthGateImpl {
	if decideOnRed == nil {
		decideOnRed = ProceedOnRed(false)
	}
	if sleep == nil {
		sleep = SleepContext
	}
	return &HealthGateImpl{
		ic:              ic,
		pollInterval:    pollInterval,
		requestTimeout:  requestTimeout,
		redRecoveryWait: redRecoveryWait,
		decideOnRed:     decideOnRed,
		sleep:           sleep,
		logger:          logger,
	}
}

func (hg *HealthGateImpl) CheckClusterHealth(ctx context.Context) (model.ClusterHealthStatus, error) {
	healthCtx, cancel := hg.healthContext(ctx)
	defer cancel()
	res, err := hg.ic.ClusterHealth(healthCtx, client.HealthRequest{Timeout: hg.requestTimeout})
	if err != nil {
		if ctx.Err() != nil {
			return model.Red, ctx.Err()
		}
		return model.Red, &ConnectivityError{Err: err}
	}
	return model.ParseClusterHealthStatus(res.Status), nil
}

func (hg *HealthGateImpl) WaitForIndexReady(ctx context.Context, index string, maxAttempts int) (bool, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := hg.indexHealth(ctx, index)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			hg.logger.Warn("Failed to check index health", zap.String("index", index), zap.Error(err))
		} else if status.Serving() {
			hg.logger.Info(
				"Index is ready",
				zap.String("index", index),
				zap.Stringer("status", status),
			)
			return true, nil
		} else {
			hg.logger.Info(
				"Waiting for index",
				zap.String("index", index),
				zap.Stringer("status", status),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
			)
		}

		if attempt < maxAttempts {
			if err := hg.sleep(ctx, hg.pollInterval); err != nil {
				return false, err
			}
		}
	}

	hg.logger.Warn(
		"Index may not be fully ready",
		zap.String("index", index),
		zap.Int("attempts", maxAttempts),
	)
	return false, nil
}

func (hg *HealthGateImpl) EnsureClusterUsable(ctx context.Context) error {
	status, err := hg.CheckClusterHealth(ctx)
	if err != nil {
		return err
	}
	hg.logger.Info("Cluster health", zap.Stringer("status", status))
	if status != model.Red {
		return nil
	}

	hg.logger.Warn("Cluster is red, waiting for it to recover", zap.Duration("wait", hg.redRecoveryWait))
	if err := hg.sleep(ctx, hg.redRecoveryWait); err != nil {
		return err
	}
	status, err = hg.CheckClusterHealth(ctx)
	if err != nil {
		return err
	}
	if status != model.Red {
		hg.logger.Info("Cluster recovered", zap.Stringer("status", status))
		return nil
	}

	hg.logger.Error("Cluster is still red, a reset of the search cluster is recommended")
	if hg.decideOnRed(ctx, status) {
		hg.logger.Warn("Proceeding with a red cluster")
		return nil
	}
	return ErrClusterRed
}

func (hg *HealthGateImpl) indexHealth(ctx context.Context, index string) (model.ClusterHealthStatus, error) {
	healthCtx, cancel := hg.healthContext(ctx)
	defer cancel()
	res, err := hg.ic.ClusterHealth(healthCtx, client.HealthRequest{
		Index:         index,
		WaitForStatus: model.Yellow.String(),
		Timeout:       hg.requestTimeout,
	})
	if err != nil {
		return model.Red, err
	}
	return model.ParseClusterHealthStatus(res.Status), nil
}

func (hg *HealthGateImpl) healthContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if hg.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, hg.requestTimeout+healthCallGrace)
}
