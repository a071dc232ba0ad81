package application

import (
	"context"
	"fmt"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
)

// CustomerApplicationService handles customer use cases. It is the most
// state-dependent manager: stock and commission effects depend on the
// difference between the previous and new (type, seller, product set, price)
// tuples. Commission changes are always modeled as reverse-then-reapply,
// never incremental adjustment, to avoid drift.
type CustomerApplicationService struct {
	customerRepo domain.CustomerRepository
	productRepo  domain.ProductRepository
	sellerRepo   domain.SellerRepository
	saleRepo     domain.SaleRepository
	stockLedger  *StockLedger
	publisher    domain.EventPublisher
	logger       *logging.Logger
}

// NewCustomerApplicationService creates a new CustomerApplicationService
func NewCustomerApplicationService(
	customerRepo domain.CustomerRepository,
	productRepo domain.ProductRepository,
	sellerRepo domain.SellerRepository,
	saleRepo domain.SaleRepository,
	stockLedger *StockLedger,
	publisher domain.EventPublisher,
	logger *logging.Logger,
) *CustomerApplicationService {
	return &CustomerApplicationService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		sellerRepo:   sellerRepo,
		saleRepo:     saleRepo,
		stockLedger:  stockLedger,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateCustomer creates a customer, consuming stock for its product lines
// and, when a seller is attached, accruing commission
func (s *CustomerApplicationService) CreateCustomer(ctx context.Context, cmd CreateCustomerCommand) (*CustomerDTO, error) {
	lines, err := s.resolveLines(ctx, cmd.Products)
	if err != nil {
		return nil, err
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

	customer, err := domain.NewCustomer(cmd.Name, cmd.Phone, cmd.Address, domain.CustomerType(cmd.Type), lines, cmd.SellerID, cmd.Price)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	plan := consumptionPlan(customer.EffectiveProductLines())
	if err := s.stockLedger.Validate(ctx, plan); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.stockLedger.Apply(ctx, "customer", plan); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		s.logger.WithError(err).Error("Failed to save customer", "customerId", customer.CustomerID)
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	degraded := make([]SideEffect, 0)
	if seller != nil {
		degraded = append(degraded, s.accrueCommission(ctx, customer, seller)...)
	}

	s.publishEvents(ctx, customer.DomainEvents(), &degraded)
	customer.ClearDomainEvents()

	s.logger.Info("Customer created",
		"customerId", customer.CustomerID,
		"type", customer.Type,
		"sellerId", customer.SellerID,
		"degraded", len(degraded),
	)

	return ToCustomerDTO(customer, degraded), nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerApplicationService) GetCustomer(ctx context.Context, customerID string) (*CustomerDTO, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, errors.ErrNotFound("customer")
	}

	return ToCustomerDTO(customer, nil), nil
}

// ListCustomers retrieves a paginated list of customers
func (s *CustomerApplicationService) ListCustomers(ctx context.Context, query ListCustomersQuery) (*ListResponse[CustomerDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.CustomerFilter{SellerID: query.SellerID}
	if query.Type != nil {
		customerType := domain.CustomerType(*query.Type)
		if !customerType.IsValid() {
			return nil, errors.ErrValidation("invalid customer type filter")
		}
		filter.Type = &customerType
	}

	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	customers, err := s.customerRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, customer := range customers {
		dtos[i] = *ToCustomerDTO(customer, nil)
	}

	return &ListResponse[CustomerDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// UpdateCustomer updates a customer. A present product list triggers stock
// delta reconciliation and a full commission reverse-then-reapply; otherwise
// only the descriptive fields change and product names are refreshed from
// the live product documents.
func (s *CustomerApplicationService) UpdateCustomer(ctx context.Context, cmd UpdateCustomerCommand) (*CustomerDTO, error) {
	customer, err := s.customerRepo.FindByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, errors.ErrNotFound("customer")
	}

	customerType := domain.CustomerType(cmd.Type)
	if !customerType.IsValid() {
		return nil, errors.ErrValidation("invalid customer type")
	}

	// Snapshot the prior commissionable tuple before any mutation
	priorLines := customer.EffectiveProductLines()
	priorMatch := s.reversalMatch(customer)
	priorSellerID := customer.SellerID

	newSellerID := priorSellerID
	if cmd.SellerID != nil {
		newSellerID = *cmd.SellerID
	}

	var seller *domain.Seller
	if newSellerID != "" {
		seller, err = s.sellerRepo.FindByID(ctx, newSellerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get seller: %w", err)
		}
		if seller == nil {
			return nil, errors.ErrValidation("seller not found")
		}
	}

	productsChanged := cmd.Products != nil

	var plan domain.StockPlan
	if productsChanged {
		newLines, err := s.resolveLines(ctx, cmd.Products)
		if err != nil {
			return nil, err
		}

		plan = domain.DiffProductLines(priorLines, newLines)
		if err := s.stockLedger.Validate(ctx, plan); err != nil {
			return nil, errors.MapDomainError(err)
		}
		if err := s.stockLedger.Apply(ctx, "customer_update", plan); err != nil {
			return nil, errors.MapDomainError(err)
		}

		if err := customer.SetProductLines(newLines); err != nil {
			s.stockLedger.Rollback(ctx, plan)
			return nil, errors.ErrValidation(err.Error())
		}
	} else {
		s.refreshLineDetails(ctx, customer)
	}

	customer.Name = cmd.Name
	customer.Phone = cmd.Phone
	customer.Address = cmd.Address
	customer.Type = customerType
	customer.SellerID = newSellerID
	if cmd.Price != nil {
		customer.Price = *cmd.Price
	}

	degraded := make([]SideEffect, 0)

	// Reverse-then-reapply runs whenever the commissionable tuple may have
	// moved: product set, seller or price
	commissionChanged := productsChanged || cmd.SellerID != nil || cmd.Price != nil
	if commissionChanged {
		degraded = append(degraded, s.reverseCommission(ctx, priorMatch, priorSellerID)...)
		customer.RefreshCorrelationID()
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	if commissionChanged && seller != nil {
		degraded = append(degraded, s.accrueCommission(ctx, customer, seller)...)
	}

	s.logger.Info("Customer updated", "customerId", customer.CustomerID, "productsChanged", productsChanged, "degraded", len(degraded))

	return ToCustomerDTO(customer, degraded), nil
}

// DeleteCustomer restores the customer's stock, reverses its accrued
// commission and removes the customer with its Sale rows
func (s *CustomerApplicationService) DeleteCustomer(ctx context.Context, customerID string) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return errors.ErrNotFound("customer")
	}

	plan := restorationPlan(customer.EffectiveProductLines())
	if err := s.stockLedger.Apply(ctx, "customer_delete", plan); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	for _, effect := range s.reverseCommission(ctx, s.reversalMatch(customer), customer.SellerID) {
		s.logger.Warn("Commission reversal degraded during delete",
			"customerId", customerID,
			"stage", effect.Stage,
			"error", effect.Error,
		)
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("Customer deleted", "customerId", customerID)

	return nil
}

// BackfillCommissions scans online customers whose seller and products have
// no matching commission rows and creates the missing accruals. Idempotent:
// customers that already carry rows are skipped.
func (s *CustomerApplicationService) BackfillCommissions(ctx context.Context) (*CommissionBackfillDTO, error) {
	return s.runBackfill(ctx, false)
}

// PreviewCommissions performs the backfill scan and aggregation without
// writing anything
func (s *CustomerApplicationService) PreviewCommissions(ctx context.Context) (*CommissionBackfillDTO, error) {
	return s.runBackfill(ctx, true)
}

func (s *CustomerApplicationService) runBackfill(ctx context.Context, dryRun bool) (*CommissionBackfillDTO, error) {
	online := domain.CustomerTypeOnline
	filter := domain.CustomerFilter{Type: &online}

	result := &CommissionBackfillDTO{DryRun: dryRun}
	perSeller := make(map[string]*SellerBackfillSummaryDTO)
	sellers := make(map[string]*domain.Seller)
	degraded := make([]SideEffect, 0)

	pagination := domain.Pagination{Page: 1, PageSize: 100}
	for {
		customers, err := s.customerRepo.FindAll(ctx, filter, pagination)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customers: %w", err)
		}
		if len(customers) == 0 {
			break
		}

		for _, customer := range customers {
			result.CustomersScanned++
			if !customer.IsCommissionable() {
				continue
			}

			seller, ok := sellers[customer.SellerID]
			if !ok {
				seller, err = s.sellerRepo.FindByID(ctx, customer.SellerID)
				if err != nil {
					return nil, fmt.Errorf("failed to get seller: %w", err)
				}
				sellers[customer.SellerID] = seller
			}
			if seller == nil {
				continue
			}

			existing, err := s.saleRepo.FindMatching(ctx, s.reversalMatch(customer))
			if err != nil {
				return nil, fmt.Errorf("failed to check commission rows: %w", err)
			}
			if len(existing) > 0 {
				continue
			}

			units := customer.TotalQuantity()
			commission := seller.CommissionFor(units)

			summary, ok := perSeller[seller.SellerID]
			if !ok {
				summary = &SellerBackfillSummaryDTO{SellerID: seller.SellerID}
				perSeller[seller.SellerID] = summary
			}
			summary.Customers++
			summary.Units += units
			summary.Commission += commission
			result.CustomersRepair++

			if dryRun {
				continue
			}

			if customer.CorrelationID == "" {
				customer.RefreshCorrelationID()
				if err := s.customerRepo.Save(ctx, customer); err != nil {
					degraded = append(degraded, SideEffect{Stage: "correlation_save", Error: err.Error()})
					continue
				}
			}
			degraded = append(degraded, s.accrueCommission(ctx, customer, seller)...)
		}

		pagination.Page++
	}

	for _, summary := range perSeller {
		result.Sellers = append(result.Sellers, *summary)
	}
	result.Degraded = degraded

	s.logger.Info("Commission backfill run",
		"dryRun", dryRun,
		"scanned", result.CustomersScanned,
		"repaired", result.CustomersRepair,
		"degraded", len(degraded),
	)

	return result, nil
}

// accrueCommission adjusts the seller's running balance and inserts one
// commission Sale row per product line, tagged with the customer's
// correlation id. Failures are collected, never propagated.
func (s *CustomerApplicationService) accrueCommission(ctx context.Context, customer *domain.Customer, seller *domain.Seller) []SideEffect {
	degraded := make([]SideEffect, 0)

	commission := seller.CommissionFor(customer.TotalQuantity())
	if commission > 0 {
		if _, err := s.sellerRepo.AdjustCommission(ctx, seller.SellerID, commission); err != nil {
			s.logger.SideEffectFailure(ctx, "commission", err, map[string]any{
				"customerId": customer.CustomerID,
				"sellerId":   seller.SellerID,
				"amount":     commission,
			})
			degraded = append(degraded, SideEffect{Stage: "commission", Error: err.Error()})
		}
	}

	lines := customer.EffectiveProductLines()
	rows := make([]*domain.Sale, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, domain.NewCommissionSale(
			line.ProductID, line.Name, line.Model,
			seller.SellerID, seller.Name,
			customer.CustomerID, customer.Name,
			line.Quantity, customer.Price, seller.CommissionFor(line.Quantity),
			customer.CorrelationID,
		))
	}

	if err := s.saleRepo.Insert(ctx, rows); err != nil {
		s.logger.SideEffectFailure(ctx, "sales", err, map[string]any{"customerId": customer.CustomerID})
		degraded = append(degraded, SideEffect{Stage: "sales", Error: err.Error()})
	}

	return degraded
}

// reverseCommission removes the commission rows selected by the match and
// deducts their summed commission from the seller. A silent mismatch (no
// rows found) is tolerated: the prior accrual may predate the matching
// attributes.
func (s *CustomerApplicationService) reverseCommission(ctx context.Context, match domain.SaleMatch, sellerID string) []SideEffect {
	degraded := make([]SideEffect, 0)

	rows, err := s.saleRepo.FindMatching(ctx, match)
	if err != nil {
		s.logger.SideEffectFailure(ctx, "commission_reversal", err, nil)
		return append(degraded, SideEffect{Stage: "commission_reversal", Error: err.Error()})
	}
	if len(rows) == 0 {
		return degraded
	}

	total := 0.0
	for _, row := range rows {
		total += row.Commission
	}

	if _, err := s.saleRepo.DeleteMatching(ctx, match); err != nil {
		s.logger.SideEffectFailure(ctx, "commission_reversal", err, nil)
		return append(degraded, SideEffect{Stage: "commission_reversal", Error: err.Error()})
	}

	if total > 0 && sellerID != "" {
		if _, err := s.sellerRepo.AdjustCommission(ctx, sellerID, -total); err != nil {
			s.logger.SideEffectFailure(ctx, "commission", err, map[string]any{
				"sellerId": sellerID,
				"amount":   -total,
			})
			degraded = append(degraded, SideEffect{Stage: "commission", Error: err.Error()})
		}
	}

	return degraded
}

// reversalMatch builds the Sale row selector for this customer: a direct
// correlation id lookup when available, otherwise the legacy attribute match
// with the unit price guard
func (s *CustomerApplicationService) reversalMatch(customer *domain.Customer) domain.SaleMatch {
	if customer.CorrelationID != "" {
		return domain.SaleMatch{CorrelationID: customer.CorrelationID}
	}

	lines := customer.EffectiveProductLines()
	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	price := customer.Price
	return domain.SaleMatch{
		SellerID:   customer.SellerID,
		CustomerID: customer.CustomerID,
		ProductIDs: productIDs,
		UnitPrice:  &price,
	}
}

// resolveLines normalizes the input lines and denormalizes product name and
// model, rejecting unknown products before any write
func (s *CustomerApplicationService) resolveLines(ctx context.Context, inputs []ProductLineInput) ([]domain.ProductLine, error) {
	lines := make([]domain.ProductLine, 0, len(inputs))
	for _, input := range inputs {
		lines = append(lines, domain.ProductLine{ProductID: input.ProductID, Quantity: input.Quantity})
	}

	normalized, err := domain.NormalizeProductLines(lines)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	for i := range normalized {
		product, err := s.productRepo.FindByID(ctx, normalized[i].ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", normalized[i].ProductID, err)
		}
		if product == nil {
			return nil, errors.ErrValidation(fmt.Sprintf("product %s not found", normalized[i].ProductID))
		}
		normalized[i].Name = product.Name
		normalized[i].Model = product.Model
	}

	return normalized, nil
}

// refreshLineDetails refreshes denormalized product names from the live
// product documents so non-product updates don't keep stale display data
func (s *CustomerApplicationService) refreshLineDetails(ctx context.Context, customer *domain.Customer) {
	for i := range customer.ProductsInfo {
		product, err := s.productRepo.FindByID(ctx, customer.ProductsInfo[i].ProductID)
		if err != nil || product == nil {
			continue
		}
		customer.ProductsInfo[i].Name = product.Name
		customer.ProductsInfo[i].Model = product.Model
	}
}

func consumptionPlan(lines []domain.ProductLine) domain.StockPlan {
	plan := make(domain.StockPlan, 0, len(lines))
	for _, line := range lines {
		plan = append(plan, domain.StockDelta{ProductID: line.ProductID, Delta: line.Quantity})
	}
	return plan
}

func restorationPlan(lines []domain.ProductLine) domain.StockPlan {
	plan := make(domain.StockPlan, 0, len(lines))
	for _, line := range lines {
		plan = append(plan, domain.StockDelta{ProductID: line.ProductID, Delta: -line.Quantity})
	}
	return plan
}

func (s *CustomerApplicationService) publishEvents(ctx context.Context, events []domain.DomainEvent, degraded *[]SideEffect) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.SideEffectFailure(ctx, "event_publish", err, nil)
		*degraded = append(*degraded, SideEffect{Stage: "event_publish", Error: err.Error()})
	}
}
