package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/middleware"
)

// ReturnApplicationService handles product return use cases. Returns always
// succeed: stock is incremented unconditionally with no upper bound, and no
// reversal path exists.
type ReturnApplicationService struct {
	returnRepo      domain.ReturnRepository
	productRepo     domain.ProductRepository
	publisher       domain.EventPublisher
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewReturnApplicationService creates a new ReturnApplicationService
func NewReturnApplicationService(
	returnRepo domain.ReturnRepository,
	productRepo domain.ProductRepository,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *ReturnApplicationService {
	return &ReturnApplicationService{
		returnRepo:      returnRepo,
		productRepo:     productRepo,
		publisher:       publisher,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// CreateReturn increments the product's stock and persists the return record
func (s *ReturnApplicationService) CreateReturn(ctx context.Context, cmd CreateReturnCommand) (*ReturnDTO, error) {
	product, err := s.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.ErrNotFound("product")
	}

	ret, err := domain.NewReturn(cmd.ProductID, product.Name, cmd.Quantity, cmd.UnitPrice, cmd.TrackingID, cmd.Notes)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	// Restores never hit the non-negativity guard
	if _, err := s.productRepo.AdjustStock(ctx, cmd.ProductID, cmd.Quantity); err != nil {
		return nil, fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		// Unwind the increment so a failed save doesn't inflate stock
		if _, rbErr := s.productRepo.AdjustStock(ctx, cmd.ProductID, -cmd.Quantity); rbErr != nil {
			s.logger.WithError(rbErr).Error("Stock rollback failed after return save failure", "productId", cmd.ProductID)
		}
		return nil, fmt.Errorf("failed to save return: %w", err)
	}

	s.businessMetrics.RecordReturnProcessed()
	s.businessMetrics.RecordStockRestored("return", cmd.Quantity)

	s.publishEvent(ctx, &domain.ReturnCreatedEvent{
		ReturnID:  ret.ReturnID,
		ProductID: ret.ProductID,
		Quantity:  ret.Quantity,
		CreatedAt: ret.CreatedAt,
	})

	s.logger.Info("Return recorded", "returnId", ret.ReturnID, "productId", ret.ProductID, "quantity", ret.Quantity)

	return ToReturnDTO(ret), nil
}

// GetReturn retrieves a return record by ID
func (s *ReturnApplicationService) GetReturn(ctx context.Context, returnID string) (*ReturnDTO, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to get return: %w", err)
	}
	if ret == nil {
		return nil, errors.ErrNotFound("return")
	}

	return ToReturnDTO(ret), nil
}

// ListReturns retrieves a paginated list of return records, optionally
// narrowed by a tracking id search
func (s *ReturnApplicationService) ListReturns(ctx context.Context, search string, page, pageSize int64) (*ListResponse[ReturnDTO], error) {
	pagination := clampPagination(page, pageSize)

	filter := domain.ReturnFilter{}
	if search != "" {
		filter.Search = &search
	}

	total, err := s.returnRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count returns: %w", err)
	}

	returns, err := s.returnRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}

	dtos := make([]ReturnDTO, len(returns))
	for i, ret := range returns {
		dtos[i] = *ToReturnDTO(ret)
	}

	return &ListResponse[ReturnDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

func (s *ReturnApplicationService) publishEvent(ctx context.Context, event domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.SideEffectFailure(ctx, "event_publish", err, nil)
	}
}
