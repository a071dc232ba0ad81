package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// SaleApplicationService handles manually recorded sales. Bill and customer
// flows write their own Sale rows; this service covers direct entries made
// outside of those flows.
type SaleApplicationService struct {
	saleRepo    domain.SaleRepository
	productRepo domain.ProductRepository
	sellerRepo  domain.SellerRepository
	logger      *logging.Logger
}

// NewSaleApplicationService creates a new SaleApplicationService
func NewSaleApplicationService(
	saleRepo domain.SaleRepository,
	productRepo domain.ProductRepository,
	sellerRepo domain.SellerRepository,
	logger *logging.Logger,
) *SaleApplicationService {
	return &SaleApplicationService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		logger:      logger,
	}
}

// CreateSale records a manual sale, decrementing stock and crediting the
// seller's commission when a seller is attached
func (s *SaleApplicationService) CreateSale(ctx context.Context, cmd CreateSaleCommand) (*SaleDTO, error) {
	product, err := s.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errors.ErrValidation("product not found")
	}

	var seller *domain.Seller
	if cmd.SellerID != "" {
		seller, err = s.sellerRepo.FindByID(ctx, cmd.SellerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seller: %w", err)
		}
		if seller == nil {
			return nil, errors.ErrValidation("seller not found")
		}
	}

	unitPrice := cmd.UnitPrice
	if unitPrice <= 0 {
		unitPrice = product.UnitPrice()
	}

	commission := 0.0
	sellerName := ""
	if seller != nil {
		commission = seller.CommissionFor(cmd.Quantity)
		sellerName = seller.Name
	} else if product.CommissionPerUnit > 0 {
		commission = product.CommissionPerUnit * float64(cmd.Quantity)
	}

	if _, err := s.productRepo.AdjustStock(ctx, cmd.ProductID, -cmd.Quantity); err != nil {
		return nil, errors.MapDomainError(err)
	}

	sale, err := domain.NewSale(product.ProductID, product.Name, product.Model, cmd.SellerID, sellerName, cmd.Quantity, unitPrice, commission)
	if err != nil {
		if _, rbErr := s.productRepo.AdjustStock(ctx, cmd.ProductID, cmd.Quantity); rbErr != nil {
			s.logger.WithError(rbErr).Error("Stock rollback failed after sale validation failure", "productId", cmd.ProductID)
		}
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.saleRepo.Insert(ctx, []*domain.Sale{sale}); err != nil {
		if _, rbErr := s.productRepo.AdjustStock(ctx, cmd.ProductID, cmd.Quantity); rbErr != nil {
			s.logger.WithError(rbErr).Error("Stock rollback failed after sale save failure", "productId", cmd.ProductID)
		}
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	var degraded []SideEffect
	if seller != nil && commission > 0 {
		if _, err := s.sellerRepo.AdjustCommission(ctx, seller.SellerID, commission); err != nil {
			s.logger.SideEffectFailure(ctx, "commission", err, map[string]any{"sellerId": seller.SellerID, "saleId": sale.SaleID})
			degraded = append(degraded, SideEffect{Stage: "commission", Error: err.Error()})
		}
	}

	s.logger.Info("Sale recorded", "saleId", sale.SaleID, "productId", sale.ProductID, "quantity", sale.Quantity)

	return ToSaleDTO(sale, degraded), nil
}

// GetSale retrieves a sale record by ID
func (s *SaleApplicationService) GetSale(ctx context.Context, saleID string) (*SaleDTO, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, errors.ErrNotFound("sale")
	}

	return ToSaleDTO(sale, nil), nil
}

// ListSales retrieves a paginated list of sale records
func (s *SaleApplicationService) ListSales(ctx context.Context, query ListSalesQuery) (*ListResponse[SaleDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.SaleFilter{
		SellerID:   query.SellerID,
		CustomerID: query.CustomerID,
		ProductID:  query.ProductID,
	}

	total, err := s.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	sales, err := s.saleRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	dtos := make([]SaleDTO, len(sales))
	for i, sale := range sales {
		dtos[i] = *ToSaleDTO(sale, nil)
	}

	return &ListResponse[SaleDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// GetLastPrice returns the unit price from the customer's most recent sale
// of the product, so repeat customers can be quoted what they last paid
func (s *SaleApplicationService) GetLastPrice(ctx context.Context, customerID, productID string) (*LastPriceDTO, error) {
	if customerID == "" || productID == "" {
		return nil, errors.ErrValidation("customerId and productId are required")
	}

	sale, err := s.saleRepo.FindLatest(ctx, domain.SaleFilter{CustomerID: &customerID, ProductID: &productID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up last sale: %w", err)
	}
	if sale == nil {
		return &LastPriceDTO{Found: false}, nil
	}

	return &LastPriceDTO{Found: true, UnitPrice: sale.UnitPrice, Date: sale.CreatedAt}, nil
}

// DeleteSale removes a sale record. Stock and commission are left untouched:
// deleting a row is a bookkeeping correction, not a reversal.
func (s *SaleApplicationService) DeleteSale(ctx context.Context, saleID string) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return errors.ErrNotFound("sale")
	}

	if err := s.saleRepo.Delete(ctx, saleID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	s.logger.Info("Sale deleted", "saleId", saleID)

	return nil
}
