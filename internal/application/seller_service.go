package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// SellerApplicationService handles seller and commission ledger use cases
type SellerApplicationService struct {
	sellerRepo domain.SellerRepository
	saleRepo   domain.SaleRepository
	logger     *logging.Logger
}

// NewSellerApplicationService creates a new SellerApplicationService
func NewSellerApplicationService(
	sellerRepo domain.SellerRepository,
	saleRepo domain.SaleRepository,
	logger *logging.Logger,
) *SellerApplicationService {
	return &SellerApplicationService{
		sellerRepo: sellerRepo,
		saleRepo:   saleRepo,
		logger:     logger,
	}
}

// CreateSeller creates a new seller
func (s *SellerApplicationService) CreateSeller(ctx context.Context, cmd CreateSellerCommand) (*SellerDTO, error) {
	seller, err := domain.NewSeller(cmd.Name, cmd.Phone, cmd.CommissionRate, cmd.BasicSalary)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		s.logger.WithError(err).Error("Failed to save seller", "sellerId", seller.SellerID)
		return nil, fmt.Errorf("failed to save seller: %w", err)
	}

	s.logger.Info("Seller created", "sellerId", seller.SellerID, "name", seller.Name)

	return ToSellerDTO(seller), nil
}

// GetSeller retrieves a seller by ID
func (s *SellerApplicationService) GetSeller(ctx context.Context, sellerID string) (*SellerDTO, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, errors.ErrNotFound("seller")
	}

	return ToSellerDTO(seller), nil
}

// ListSellers retrieves a paginated list of sellers
func (s *SellerApplicationService) ListSellers(ctx context.Context, page, pageSize int64) (*ListResponse[SellerDTO], error) {
	pagination := clampPagination(page, pageSize)

	total, err := s.sellerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}

	sellers, err := s.sellerRepo.FindAll(ctx, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}

	dtos := make([]SellerDTO, len(sellers))
	for i, seller := range sellers {
		dtos[i] = *ToSellerDTO(seller)
	}

	return &ListResponse[SellerDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// UpdateSeller updates a seller's details. Changing the commission rate
// affects future accruals only; the running balance is untouched.
func (s *SellerApplicationService) UpdateSeller(ctx context.Context, cmd UpdateSellerCommand) (*SellerDTO, error) {
	seller, err := s.sellerRepo.FindByID(ctx, cmd.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, errors.ErrNotFound("seller")
	}

	if err := seller.UpdateDetails(cmd.Name, cmd.Phone, cmd.CommissionRate, cmd.BasicSalary); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to save seller: %w", err)
	}

	s.logger.Info("Seller updated", "sellerId", seller.SellerID)

	return ToSellerDTO(seller), nil
}

// DeleteSeller removes a seller. Sale history rows keep their denormalized
// seller name and are left in place.
func (s *SellerApplicationService) DeleteSeller(ctx context.Context, sellerID string) error {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return errors.ErrNotFound("seller")
	}

	if err := s.sellerRepo.Delete(ctx, sellerID); err != nil {
		return fmt.Errorf("failed to delete seller: %w", err)
	}

	s.logger.Info("Seller deleted", "sellerId", sellerID)

	return nil
}

// GetCommissionSummary combines the seller's ledger balances with totals
// aggregated from the sale history
func (s *SellerApplicationService) GetCommissionSummary(ctx context.Context, sellerID string) (*SellerCommissionSummaryDTO, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, errors.ErrNotFound("seller")
	}

	stats, err := s.saleRepo.SellerStats(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller sales: %w", err)
	}

	return &SellerCommissionSummaryDTO{
		SellerID:          seller.SellerID,
		Name:              seller.Name,
		CommissionRate:    seller.CommissionRate,
		BasicSalary:       seller.BasicSalary,
		Commission:        seller.Commission,
		TotalCommission:   seller.TotalCommission,
		Total:             seller.Total,
		TotalSales:        stats.TotalSales,
		TotalRevenue:      stats.TotalRevenue,
		TotalProductsSold: stats.TotalProductsSold,
	}, nil
}

// GetSellerSales retrieves the sale history for a seller
func (s *SellerApplicationService) GetSellerSales(ctx context.Context, sellerID string, page, pageSize int64) (*ListResponse[SaleDTO], error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, errors.ErrNotFound("seller")
	}

	pagination := clampPagination(page, pageSize)
	filter := domain.SaleFilter{SellerID: &sellerID}

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
