package application

import (
	"context"
	"fmt"
	"time"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// PurchaseBatchApplicationService handles supplier delivery intake. A batch is
// append-only: recording one adds every item quantity to stock, and there is
// no update or delete path.
type PurchaseBatchApplicationService struct {
	batchRepo   domain.PurchaseBatchRepository
	productRepo domain.ProductRepository
	stockLedger *StockLedger
	logger      *logging.Logger
}

// NewPurchaseBatchApplicationService creates a new PurchaseBatchApplicationService
func NewPurchaseBatchApplicationService(
	batchRepo domain.PurchaseBatchRepository,
	productRepo domain.ProductRepository,
	stockLedger *StockLedger,
	logger *logging.Logger,
) *PurchaseBatchApplicationService {
	return &PurchaseBatchApplicationService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		stockLedger: stockLedger,
		logger:      logger,
	}
}

// CreatePurchaseBatch records a supplier delivery, adding every item quantity
// to the product's stock
func (s *PurchaseBatchApplicationService) CreatePurchaseBatch(ctx context.Context, cmd CreatePurchaseBatchCommand) (*PurchaseBatchDTO, error) {
	items := make([]domain.PurchaseBatchItem, 0, len(cmd.Items))
	for _, input := range cmd.Items {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", input.ProductID, err)
		}
		if product == nil {
			return nil, errors.ErrValidation(fmt.Sprintf("product %s not found", input.ProductID))
		}
		items = append(items, domain.PurchaseBatchItem{
			ProductID: input.ProductID,
			Name:      product.Name,
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
		})
	}

	purchaseDate := time.Time{}
	if cmd.PurchaseDate != nil {
		purchaseDate = *cmd.PurchaseDate
	}

	batch, err := domain.NewPurchaseBatch(cmd.SupplierName, cmd.BatchNumber, cmd.Notes, purchaseDate, items)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	// Intake only adds stock, so the guard never rejects the plan
	plan := batch.IntakePlan()
	if err := s.stockLedger.Apply(ctx, "purchase_batch", plan); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return nil, fmt.Errorf("failed to save purchase batch: %w", err)
	}

	s.logger.Info("Purchase batch recorded", "batchId", batch.BatchID, "supplier", batch.SupplierName, "items", len(batch.Items))

	return ToPurchaseBatchDTO(batch), nil
}

// GetPurchaseBatch retrieves a purchase batch by ID
func (s *PurchaseBatchApplicationService) GetPurchaseBatch(ctx context.Context, batchID string) (*PurchaseBatchDTO, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase batch: %w", err)
	}
	if batch == nil {
		return nil, errors.ErrNotFound("purchase batch")
	}

	return ToPurchaseBatchDTO(batch), nil
}

// ListPurchaseBatches retrieves a paginated list of purchase batches,
// optionally narrowed by supplier and purchase date range
func (s *PurchaseBatchApplicationService) ListPurchaseBatches(ctx context.Context, query ListPurchaseBatchesQuery) (*ListResponse[PurchaseBatchDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.PurchaseBatchFilter{
		SupplierName: query.SupplierName,
		DateFrom:     query.StartDate,
		DateTo:       query.EndDate,
	}

	total, err := s.batchRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchase batches: %w", err)
	}

	batches, err := s.batchRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase batches: %w", err)
	}

	dtos := make([]PurchaseBatchDTO, len(batches))
	for i, batch := range batches {
		dtos[i] = *ToPurchaseBatchDTO(batch)
	}

	return &ListResponse[PurchaseBatchDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}
