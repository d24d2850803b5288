package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

// Estimator predicts when an order will be ready. It prefers the
// rolling average time-to-ready of each kitchen station involved and
// falls back to the declared prep minutes when a station has no
// history yet.
type Estimator struct {
	repo   ports.OrderRepository
	window int
	log    *zap.Logger
}

func NewEstimator(repo ports.OrderRepository, log *zap.Logger) *Estimator {
	return &Estimator{
		repo:   repo,
		window: 20,
		log:    log,
	}
}

// EstimateReadyAt returns nil when there is nothing to base an
// estimate on. The slowest station bounds the whole order.
func (e *Estimator) EstimateReadyAt(ctx context.Context, order *domain.Order) *time.Time {
	if order == nil || len(order.Items) == 0 {
		return nil
	}

	var longest time.Duration
	seen := make(map[string]bool)
	for _, item := range order.Items {
		if seen[item.Station] {
			continue
		}
		seen[item.Station] = true

		avg, err := e.repo.AverageTimeToReady(ctx, item.Station, e.window)
		if err != nil {
			e.log.Warn("Failed to read station history for estimate",
				zap.String("station", item.Station),
				zap.Error(err),
			)
			continue
		}
		if avg > longest {
			longest = avg
		}
	}

	for _, item := range order.Items {
		declared := time.Duration(item.PrepMinutes) * time.Minute
		if declared > longest {
			longest = declared
		}
	}

	if longest <= 0 {
		return nil
	}

	ready := order.PlacedAt.Add(longest)
	return &ready
}
