package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// ProductApplicationService handles product and stock ledger use cases
type ProductApplicationService struct {
	productRepo domain.ProductRepository
	historyRepo domain.StockHistoryRepository
	publisher   domain.EventPublisher
	logger      *logging.Logger
}

// NewProductApplicationService creates a new ProductApplicationService
func NewProductApplicationService(
	productRepo domain.ProductRepository,
	historyRepo domain.StockHistoryRepository,
	publisher domain.EventPublisher,
	logger *logging.Logger,
) *ProductApplicationService {
	return &ProductApplicationService{
		productRepo: productRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateProduct creates a new product
func (s *ProductApplicationService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error) {
	existing, err := s.productRepo.FindByModel(ctx, cmd.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to check model: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("product with this model already exists")
	}

	prices := domain.PriceSet{
		Original:  cmd.OriginalPrice,
		Wholesale: cmd.WholesalePrice,
		Retail:    cmd.RetailPrice,
		Website:   cmd.WebsitePrice,
	}

	product, err := domain.NewProduct(cmd.Name, cmd.Model, cmd.Category, prices, cmd.Stock)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.WithError(err).Error("Failed to save product", "productId", product.ProductID)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	if product.Stock > 0 {
		s.recordStockMovement(ctx, domain.NewStockHistory(product.ProductID, 0, product.Stock, "Initial stock", "Product created with initial stock"))
	}

	s.publishEvents(ctx, product.DomainEvents())
	product.ClearDomainEvents()

	s.logger.Info("Product created", "productId", product.ProductID, "model", product.Model, "stock", product.Stock)

	return ToProductDTO(product), nil
}

// GetProduct retrieves a product by ID
func (s *ProductApplicationService) GetProduct(ctx context.Context, query GetProductQuery) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, query.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.ErrNotFound("product")
	}

	return ToProductDTO(product), nil
}

// ListProducts retrieves a paginated list of products
func (s *ProductApplicationService) ListProducts(ctx context.Context, query ListProductsQuery) (*ListResponse[ProductDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.ProductFilter{
		Category: query.Category,
		LowStock: query.LowStock,
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDTO, len(products))
	for i, product := range products {
		dtos[i] = *ToProductDTO(product)
	}

	return &ListResponse[ProductDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// UpdateProduct updates a product's descriptive fields
func (s *ProductApplicationService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.ErrNotFound("product")
	}

	if cmd.Model != product.Model {
		existing, err := s.productRepo.FindByModel(ctx, cmd.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to check model: %w", err)
		}
		if existing != nil && existing.ProductID != product.ProductID {
			return nil, errors.ErrConflict("product with this model already exists")
		}
	}

	product.UpdateDetails(cmd.Name, cmd.Model, cmd.Category, domain.PriceSet{
		Original:  cmd.OriginalPrice,
		Wholesale: cmd.WholesalePrice,
		Retail:    cmd.RetailPrice,
		Website:   cmd.WebsitePrice,
	})

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("Product updated", "productId", product.ProductID)

	return ToProductDTO(product), nil
}

// AdjustStock applies a direct signed stock adjustment through the
// conditional guard
func (s *ProductApplicationService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*ProductDTO, error) {
	if cmd.Delta == 0 {
		return nil, errors.ErrValidation("stock delta must be non-zero")
	}

	product, err := s.productRepo.AdjustStock(ctx, cmd.ProductID, cmd.Delta)
	if err != nil {
		return nil, errors.MapDomainError(err)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "Stock adjustment"
	}
	s.recordStockMovement(ctx, domain.NewStockHistory(product.ProductID, product.Stock-cmd.Delta, product.Stock, reason, cmd.Notes))

	s.logger.Info("Stock adjusted", "productId", cmd.ProductID, "delta", cmd.Delta, "stock", product.Stock)

	return ToProductDTO(product), nil
}

// GetStockHistory lists a product's stock movements, newest first
func (s *ProductApplicationService) GetStockHistory(ctx context.Context, productID string) ([]StockHistoryDTO, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.ErrNotFound("product")
	}

	entries, err := s.historyRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock history: %w", err)
	}

	dtos := make([]StockHistoryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = *ToStockHistoryDTO(entry)
	}
	return dtos, nil
}

// DeleteProduct removes a product
func (s *ProductApplicationService) DeleteProduct(ctx context.Context, productID string) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return errors.ErrNotFound("product")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if s.historyRepo != nil {
		if err := s.historyRepo.DeleteByProduct(ctx, productID); err != nil {
			s.logger.SideEffectFailure(ctx, "stock_history_cleanup", err, nil)
		}
	}

	s.logger.Info("Product deleted", "productId", productID)

	return nil
}

func (s *ProductApplicationService) recordStockMovement(ctx context.Context, entry *domain.StockHistory) {
	if s.historyRepo == nil {
		return
	}
	if err := s.historyRepo.Insert(ctx, entry); err != nil {
		s.logger.SideEffectFailure(ctx, "stock_history", err, nil)
	}
}

func (s *ProductApplicationService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.SideEffectFailure(ctx, "event_publish", err, nil)
	}
}
