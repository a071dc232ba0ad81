package application

import (
	"context"
	"fmt"
	"time"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/middleware"
)

// BillApplicationService handles invoice use cases: creating a bill consumes
// stock, logs income, accrues seller commission and spawns Sale rows. Only
// the stock plan is rolled back when the bill write itself fails; later
// accounting steps are best effort and surface in the Degraded list.
type BillApplicationService struct {
	billRepo        domain.BillRepository
	productRepo     domain.ProductRepository
	sellerRepo      domain.SellerRepository
	saleRepo        domain.SaleRepository
	incomeRepo      domain.IncomeRepository
	stockLedger     *StockLedger
	publisher       domain.EventPublisher
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewBillApplicationService creates a new BillApplicationService
func NewBillApplicationService(
	billRepo domain.BillRepository,
	productRepo domain.ProductRepository,
	sellerRepo domain.SellerRepository,
	saleRepo domain.SaleRepository,
	incomeRepo domain.IncomeRepository,
	stockLedger *StockLedger,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *BillApplicationService {
	return &BillApplicationService{
		billRepo:        billRepo,
		productRepo:     productRepo,
		sellerRepo:      sellerRepo,
		saleRepo:        saleRepo,
		incomeRepo:      incomeRepo,
		stockLedger:     stockLedger,
		publisher:       publisher,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// CreateBill creates a bill with all its accounting side effects
func (s *BillApplicationService) CreateBill(ctx context.Context, cmd CreateBillCommand) (*BillDTO, error) {
	seller, err := s.sellerRepo.FindByID(ctx, cmd.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, errors.ErrNotFound("seller")
	}

	items, err := s.resolveItems(ctx, cmd.Items, nil)
	if err != nil {
		return nil, err
	}

	previousRemaining, err := s.billRepo.LatestRemainingForCustomer(ctx, cmd.Customer.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up previous balance: %w", err)
	}

	billNumber, err := s.billRepo.NextBillNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve bill number: %w", err)
	}

	customer := domain.BillCustomer{
		CustomerID: cmd.Customer.CustomerID,
		Name:       cmd.Customer.Name,
		Phone:      cmd.Customer.Phone,
		Address:    cmd.Customer.Address,
	}

	bill, err := domain.NewBill(billNumber, cmd.SellerID, customer, items, cmd.Discount, cmd.AmountPaid, previousRemaining)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	plan := bill.ConsumptionPlan()
	if err := s.stockLedger.Apply(ctx, "bill", plan); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		s.logger.WithError(err).Error("Failed to save bill", "billNumber", billNumber)
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	degraded := s.applyBillSideEffects(ctx, bill, seller, cmd.IncomeType)

	s.businessMetrics.RecordBillCreated(string(bill.Status))

	s.publishEvents(ctx, bill.DomainEvents(), &degraded)
	bill.ClearDomainEvents()

	s.logger.Info("Bill created",
		"billId", bill.BillID,
		"billNumber", bill.BillNumber,
		"sellerId", bill.SellerID,
		"total", bill.Total,
		"degraded", len(degraded),
	)

	return ToBillDTO(bill, degraded), nil
}

// applyBillSideEffects runs the post-save accounting: the income entry for
// the initial payment, seller commission for the total quantity, and one
// Sale row per line item. Failures never abort the bill.
func (s *BillApplicationService) applyBillSideEffects(ctx context.Context, bill *domain.Bill, seller *domain.Seller, incomeType string) []SideEffect {
	degraded := make([]SideEffect, 0)

	income, err := domain.NewIncome(resolveIncomeType(incomeType), "bill "+bill.BillNumber, bill.Total, bill.AmountPaid, bill.BillID)
	if err == nil {
		err = s.incomeRepo.Save(ctx, income)
	}
	if err != nil {
		s.logger.SideEffectFailure(ctx, "income", err, map[string]any{"billId": bill.BillID})
		degraded = append(degraded, SideEffect{Stage: "income", Error: err.Error()})
	}

	commission := seller.CommissionFor(bill.TotalQuantity())
	if commission > 0 {
		if _, err := s.sellerRepo.AdjustCommission(ctx, seller.SellerID, commission); err != nil {
			s.logger.SideEffectFailure(ctx, "commission", err, map[string]any{
				"billId":   bill.BillID,
				"sellerId": seller.SellerID,
				"amount":   commission,
			})
			degraded = append(degraded, SideEffect{Stage: "commission", Error: err.Error()})
		} else {
			s.businessMetrics.RecordCommissionAccrued("bill", commission)
		}
	}

	rows := billSaleRows(bill, seller)
	if err := s.saleRepo.Insert(ctx, rows); err != nil {
		s.logger.SideEffectFailure(ctx, "sales", err, map[string]any{"billId": bill.BillID})
		degraded = append(degraded, SideEffect{Stage: "sales", Error: err.Error()})
	} else {
		s.businessMetrics.RecordSalesRecorded("bill", len(rows))
	}

	return degraded
}

// billSaleRows builds one Sale row per bill line item, tagged with the
// bill's correlation id. The commission flag is explicitly false so customer
// reversal matching never touches bill rows.
func billSaleRows(bill *domain.Bill, seller *domain.Seller) []*domain.Sale {
	notCommission := false
	rows := make([]*domain.Sale, 0, len(bill.Items))
	for _, item := range bill.Items {
		sale, err := domain.NewSale(item.ProductID, item.Name, item.Model, seller.SellerID, seller.Name, item.Quantity, item.UnitPrice, seller.CommissionFor(item.Quantity))
		if err != nil {
			continue
		}
		sale.CustomerID = bill.Customer.CustomerID
		sale.CustomerName = bill.Customer.Name
		sale.CorrelationID = bill.CorrelationID
		sale.IsCustomerCommissionSale = &notCommission
		rows = append(rows, sale)
	}
	return rows
}

// GetBill retrieves a bill by ID
func (s *BillApplicationService) GetBill(ctx context.Context, billID string) (*BillDTO, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, errors.ErrNotFound("bill")
	}

	return ToBillDTO(bill, nil), nil
}

// ListBills retrieves a paginated list of bills
func (s *BillApplicationService) ListBills(ctx context.Context, query ListBillsQuery) (*ListResponse[BillDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.BillFilter{
		SellerID:     query.SellerID,
		CustomerName: query.CustomerName,
		DateFrom:     query.StartDate,
		DateTo:       query.EndDate,
		Search:       query.Search,
	}
	if query.Status != nil {
		status := domain.BillStatus(*query.Status)
		if !status.IsValid() {
			return nil, errors.ErrValidation("invalid bill status filter")
		}
		filter.Status = &status
	}

	total, err := s.billRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count bills: %w", err)
	}

	bills, err := s.billRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	dtos := make([]BillDTO, len(bills))
	for i, bill := range bills {
		dtos[i] = *ToBillDTO(bill, nil)
	}

	return &ListResponse[BillDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// GetCustomerHistory returns the customer's bills alongside purchase totals.
// The outstanding balance is the latest bill's remaining amount, which
// already carries forward earlier balances.
func (s *BillApplicationService) GetCustomerHistory(ctx context.Context, customerName string, page, pageSize int64) (*CustomerHistoryDTO, error) {
	if customerName == "" {
		return nil, errors.ErrValidation("customer name is required")
	}

	pagination := clampPagination(page, pageSize)
	filter := domain.BillFilter{CustomerName: &customerName}

	total, err := s.billRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count bills: %w", err)
	}

	bills, err := s.billRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	stats, err := s.billRepo.CustomerStats(ctx, customerName)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customer stats: %w", err)
	}

	remaining, err := s.billRepo.LatestRemainingForCustomer(ctx, customerName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up outstanding balance: %w", err)
	}

	dtos := make([]BillDTO, len(bills))
	for i, bill := range bills {
		dtos[i] = *ToBillDTO(bill, nil)
	}

	return &CustomerHistoryDTO{
		Bills: ListResponse[BillDTO]{
			Data:       dtos,
			Total:      total,
			Page:       pagination.Page,
			PageSize:   pagination.PageSize,
			TotalPages: totalPages(total, pagination.PageSize),
		},
		Stats: CustomerHistoryStatsDTO{
			TotalPurchases:    stats.TotalPurchases,
			TotalAmount:       stats.TotalAmount,
			AverageOrderValue: stats.AverageOrderValue,
			TotalPaid:         stats.TotalPaid,
			TotalRemaining:    remaining,
		},
	}, nil
}

// GetBillingStats reports completed-bill totals for the current day, month
// and year
func (s *BillApplicationService) GetBillingStats(ctx context.Context) (*BillingStatsDTO, error) {
	now := time.Now().UTC()
	windows := []struct {
		name  string
		since time.Time
	}{
		{"daily", time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)},
		{"monthly", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)},
		{"yearly", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	stats := make([]BillingWindowDTO, len(windows))
	for i, window := range windows {
		result, err := s.billRepo.StatsSince(ctx, window.since)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate %s stats: %w", window.name, err)
		}
		stats[i] = BillingWindowDTO{
			TotalBills:        result.TotalBills,
			TotalRevenue:      result.TotalRevenue,
			AverageOrderValue: result.AverageOrderValue,
		}
	}

	return &BillingStatsDTO{Daily: stats[0], Monthly: stats[1], Yearly: stats[2]}, nil
}

// UpdateBill replaces a bill's line items, applying only the per-product net
// stock delta between the old and new item sets
func (s *BillApplicationService) UpdateBill(ctx context.Context, cmd UpdateBillCommand) (*BillDTO, error) {
	bill, err := s.billRepo.FindByID(ctx, cmd.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, errors.ErrNotFound("bill")
	}
	if bill.Status == domain.BillStatusCancelled {
		return nil, errors.ErrValidation("bill has been cancelled")
	}

	oldLines := bill.ItemLines()

	// The bill's own consumption comes back before the new lines are
	// judged, so shrinking a line works even at zero stock on hand
	reverted := make(map[string]int, len(oldLines))
	for _, line := range oldLines {
		reverted[line.ProductID] += line.Quantity
	}

	items, err := s.resolveItems(ctx, cmd.Items, reverted)
	if err != nil {
		return nil, err
	}

	if err := bill.ReplaceItems(items, cmd.Discount); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	plan := domain.DiffProductLines(oldLines, bill.ItemLines())
	if err := s.stockLedger.Validate(ctx, plan); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.stockLedger.Apply(ctx, "bill_update", plan); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	s.logger.Info("Bill updated", "billId", bill.BillID, "total", bill.Total)

	return ToBillDTO(bill, nil), nil
}

// AddBillPayment appends a payment and logs the matching income entry
func (s *BillApplicationService) AddBillPayment(ctx context.Context, cmd AddBillPaymentCommand) (*BillDTO, error) {
	bill, err := s.billRepo.FindByID(ctx, cmd.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, errors.ErrNotFound("bill")
	}

	if err := bill.AddPayment(cmd.Amount); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	degraded := make([]SideEffect, 0)

	// Follow-up payments log income with a zero expected amount
	income, err := domain.NewIncome(resolveIncomeType(cmd.IncomeType), "bill "+bill.BillNumber, 0, cmd.Amount, bill.BillID)
	if err == nil {
		err = s.incomeRepo.Save(ctx, income)
	}
	if err != nil {
		s.logger.SideEffectFailure(ctx, "income", err, map[string]any{"billId": bill.BillID})
		degraded = append(degraded, SideEffect{Stage: "income", Error: err.Error()})
	}

	s.publishEvents(ctx, bill.DomainEvents(), &degraded)
	bill.ClearDomainEvents()

	s.logger.Info("Bill payment added", "billId", bill.BillID, "amount", cmd.Amount, "remaining", bill.RemainingAmount)

	return ToBillDTO(bill, degraded), nil
}

// CancelBill cancels a bill, restoring stock only when the bill had
// completed and therefore consumed it
func (s *BillApplicationService) CancelBill(ctx context.Context, billID string) (*BillDTO, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, errors.ErrNotFound("bill")
	}

	restoreStock, err := bill.Cancel()
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	degraded := make([]SideEffect, 0)

	if restoreStock {
		if err := s.stockLedger.Apply(ctx, "bill_cancel", bill.RestorationPlan()); err != nil {
			s.logger.SideEffectFailure(ctx, "stock_restore", err, map[string]any{"billId": bill.BillID})
			degraded = append(degraded, SideEffect{Stage: "stock_restore", Error: err.Error()})
		}
	}

	s.publishEvents(ctx, bill.DomainEvents(), &degraded)
	bill.ClearDomainEvents()

	s.logger.Info("Bill cancelled", "billId", bill.BillID, "stockRestored", restoreStock)

	return ToBillDTO(bill, degraded), nil
}

// UpdateBillStatus sets the bill's lifecycle status with no side effects
func (s *BillApplicationService) UpdateBillStatus(ctx context.Context, cmd UpdateBillStatusCommand) (*BillDTO, error) {
	bill, err := s.billRepo.FindByID(ctx, cmd.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if bill == nil {
		return nil, errors.ErrNotFound("bill")
	}

	if err := bill.SetStatus(domain.BillStatus(cmd.Status)); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	s.logger.Info("Bill status updated", "billId", bill.BillID, "status", cmd.Status)

	return ToBillDTO(bill, nil), nil
}

// resolveItems loads and validates every line item's product, denormalizing
// name, model and the tier price. Any missing product or short stock aborts
// the whole request before a single write. The reverted map carries per
// product quantities an existing bill already holds; those units count as
// available when judging the new lines.
func (s *BillApplicationService) resolveItems(ctx context.Context, inputs []BillItemInput, reverted map[string]int) ([]domain.BillItem, error) {
	items := make([]domain.BillItem, 0, len(inputs))

	for _, input := range inputs {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", input.ProductID, err)
		}
		if product == nil {
			return nil, errors.ErrValidation(fmt.Sprintf("product %s not found", input.ProductID))
		}
		if product.Stock+reverted[input.ProductID] < input.Quantity {
			return nil, errors.ErrInsufficientStock(product.ProductID)
		}

		tier := domain.PriceTier(input.PriceTier)
		if !tier.IsValid() {
			tier = domain.PriceTierRetail
		}
		unitPrice := input.UnitPrice
		if unitPrice <= 0 {
			unitPrice = product.Prices.ForTier(tier)
		}

		items = append(items, domain.BillItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Model:     product.Model,
			PriceTier: tier,
			UnitPrice: unitPrice,
			Quantity:  input.Quantity,
		})
	}

	return items, nil
}

func resolveIncomeType(incomeType string) domain.IncomeType {
	t := domain.IncomeType(incomeType)
	if !t.IsValid() {
		return domain.IncomeTypeCash
	}
	return t
}

func (s *BillApplicationService) publishEvents(ctx context.Context, events []domain.DomainEvent, degraded *[]SideEffect) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.SideEffectFailure(ctx, "event_publish", err, nil)
		*degraded = append(*degraded, SideEffect{Stage: "event_publish", Error: err.Error()})
	}
}
