// Package decay implements the periodic depreciation of value-creation
// scores. It is maintenance, not part of the transfer path: one bulk update
// multiplies every account's score by a retention factor and floors the
// result.
package decay

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/metrics"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

type Service struct {
	store  store.Store
	factor decimal.Decimal
}

// New builds the service with a retention factor in (0, 1]. The community
// runs 0.95: scores shrink five percent per run.
func New(st store.Store, retention float64) (*Service, error) {
	if retention <= 0 || retention > 1 {
		return nil, fmt.Errorf("retention factor must be in (0, 1], got %v", retention)
	}
	return &Service{store: st, factor: decimal.NewFromFloat(retention)}, nil
}

// Run applies value_creation = floor(value_creation * retention) to every
// account and returns the number of rows affected.
func (s *Service) Run(ctx context.Context) (int64, error) {
	count, err := s.store.DepreciateScores(ctx, s.factor)
	if err != nil {
		return 0, err
	}
	metrics.DecayRuns.Inc()
	logger.Log.Info("depreciated value creation",
		zap.Int64("accounts", count),
		zap.String("retention", s.factor.String()),
	)
	return count, nil
}
