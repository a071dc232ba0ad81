package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/middleware"
)

// StockLedger applies stock plans against the product repository with
// compensating rollback. Consuming deltas go first so the conditional update
// guard can reject the whole batch before anything is given back; restoring
// deltas follow unconditionally. This is not a transaction: a crash between
// steps can leave stock inconsistent, which is a documented risk.
type StockLedger struct {
	productRepo     domain.ProductRepository
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewStockLedger creates a new StockLedger
func NewStockLedger(productRepo domain.ProductRepository, logger *logging.Logger, businessMetrics *middleware.BusinessMetrics) *StockLedger {
	return &StockLedger{
		productRepo:     productRepo,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// Validate checks every consuming delta of the plan against current stock
// without writing anything. The conditional update during Apply remains the
// true safety net; this pre-check only produces friendlier errors before any
// mutation is attempted.
func (l *StockLedger) Validate(ctx context.Context, plan domain.StockPlan) error {
	for _, delta := range plan.Consuming() {
		product, err := l.productRepo.FindByID(ctx, delta.ProductID)
		if err != nil {
			return fmt.Errorf("failed to load product %s: %w", delta.ProductID, err)
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if product.Stock < delta.Delta {
			return &domain.InsufficientStockError{
				ProductID: delta.ProductID,
				Requested: delta.Delta,
				Available: product.Stock,
			}
		}
	}
	return nil
}

// Apply executes the plan: consuming deltas first, each through the
// conditional decrement; if any fails, the already-applied consuming deltas
// are rolled back by applying their inverse and the batch reports failure.
// Restoring deltas run after all consuming deltas succeeded. The source
// labels the stock adjustment metrics.
func (l *StockLedger) Apply(ctx context.Context, source string, plan domain.StockPlan) error {
	applied := make([]domain.StockDelta, 0, len(plan))

	for _, delta := range plan.Consuming() {
		if _, err := l.productRepo.AdjustStock(ctx, delta.ProductID, -delta.Delta); err != nil {
			var insufficient *domain.InsufficientStockError
			if errors.As(err, &insufficient) {
				l.businessMetrics.RecordStockRejection(source)
			}
			l.Rollback(ctx, applied)
			return err
		}
		l.businessMetrics.RecordStockConsumed(source, delta.Delta)
		applied = append(applied, delta)
	}

	for _, delta := range plan.Restoring() {
		if _, err := l.productRepo.AdjustStock(ctx, delta.ProductID, -delta.Delta); err != nil {
			// Restores never fail the stock guard; anything else is an
			// infrastructure error and the batch unwinds
			l.Rollback(ctx, applied)
			return err
		}
		l.businessMetrics.RecordStockRestored(source, -delta.Delta)
		applied = append(applied, delta)
	}

	return nil
}

// Rollback applies the inverse of previously applied deltas, most recent
// first. Failures are logged and skipped so the remaining deltas still get
// their compensation attempt.
func (l *StockLedger) Rollback(ctx context.Context, applied []domain.StockDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		inverse := applied[i].Inverse()
		if _, err := l.productRepo.AdjustStock(ctx, inverse.ProductID, -inverse.Delta); err != nil {
			l.logger.WithContext(ctx).Error("Stock rollback failed",
				"productId", inverse.ProductID,
				"delta", inverse.Delta,
				"error", err.Error(),
			)
		}
	}
}
