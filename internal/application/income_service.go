package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// IncomeApplicationService handles the append-only income log. Bill flows
// write their own entries; this service covers direct entries and reads.
type IncomeApplicationService struct {
	incomeRepo domain.IncomeRepository
	logger     *logging.Logger
}

// NewIncomeApplicationService creates a new IncomeApplicationService
func NewIncomeApplicationService(incomeRepo domain.IncomeRepository, logger *logging.Logger) *IncomeApplicationService {
	return &IncomeApplicationService{
		incomeRepo: incomeRepo,
		logger:     logger,
	}
}

// CreateIncome logs a standalone income entry
func (s *IncomeApplicationService) CreateIncome(ctx context.Context, cmd CreateIncomeCommand) (*IncomeDTO, error) {
	income, err := domain.NewIncome(domain.IncomeType(cmd.Type), cmd.Source, cmd.ExpectedAmount, cmd.Amount, "")
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.incomeRepo.Save(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to save income: %w", err)
	}

	s.logger.Info("Income logged", "incomeId", income.IncomeID, "type", income.Type, "amount", income.Amount)

	return ToIncomeDTO(income), nil
}

// ListIncomes retrieves a paginated list of income entries
func (s *IncomeApplicationService) ListIncomes(ctx context.Context, query ListIncomesQuery) (*ListResponse[IncomeDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.IncomeFilter{BillID: query.BillID}
	if query.Type != nil {
		incomeType := domain.IncomeType(*query.Type)
		if !incomeType.IsValid() {
			return nil, errors.ErrValidation("invalid income type filter")
		}
		filter.Type = &incomeType
	}

	total, err := s.incomeRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count incomes: %w", err)
	}

	incomes, err := s.incomeRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}

	dtos := make([]IncomeDTO, len(incomes))
	for i, income := range incomes {
		dtos[i] = *ToIncomeDTO(income)
	}

	return &ListResponse[IncomeDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}
