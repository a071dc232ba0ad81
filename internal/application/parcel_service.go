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

// ParcelApplicationService handles courier dispatch use cases with the same
// delta-based stock reconciliation as customers: create consumes, update
// applies the set difference, entering the return status restores exactly
// once, and delete always restores.
type ParcelApplicationService struct {
	parcelRepo      domain.ParcelRepository
	productRepo     domain.ProductRepository
	stockLedger     *StockLedger
	publisher       domain.EventPublisher
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewParcelApplicationService creates a new ParcelApplicationService
func NewParcelApplicationService(
	parcelRepo domain.ParcelRepository,
	productRepo domain.ProductRepository,
	stockLedger *StockLedger,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *ParcelApplicationService {
	return &ParcelApplicationService{
		parcelRepo:      parcelRepo,
		productRepo:     productRepo,
		stockLedger:     stockLedger,
		publisher:       publisher,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// CreateParcel creates a parcel, consuming stock for its product lines
func (s *ParcelApplicationService) CreateParcel(ctx context.Context, cmd CreateParcelCommand) (*ParcelDTO, error) {
	existing, err := s.parcelRepo.FindByTrackingNumber(ctx, cmd.TrackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check tracking number: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrConflict("parcel with this tracking number already exists")
	}

	lines, err := s.resolveLines(ctx, cmd.Products)
	if err != nil {
		return nil, err
	}

	parcelDate := time.Time{}
	if cmd.ParcelDate != nil {
		parcelDate = *cmd.ParcelDate
	}

	parcel, err := domain.NewParcel(cmd.TrackingNumber, cmd.Recipient, cmd.Phone, cmd.Address, lines, cmd.CODAmount, parcelDate)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	plan := parcel.ConsumptionPlan()
	if err := s.stockLedger.Validate(ctx, plan); err != nil {
		return nil, errors.MapDomainError(err)
	}
	if err := s.stockLedger.Apply(ctx, "parcel", plan); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		s.logger.WithError(err).Error("Failed to save parcel", "trackingNumber", cmd.TrackingNumber)
		return nil, fmt.Errorf("failed to save parcel: %w", err)
	}

	s.businessMetrics.RecordParcelDispatched(string(parcel.Status))

	s.publishEvents(ctx, parcel.DomainEvents())
	parcel.ClearDomainEvents()

	s.logger.Info("Parcel created", "parcelId", parcel.ParcelID, "trackingNumber", parcel.TrackingNumber)

	return ToParcelDTO(parcel), nil
}

// GetParcel retrieves a parcel by ID
func (s *ParcelApplicationService) GetParcel(ctx context.Context, parcelID string) (*ParcelDTO, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}
	if parcel == nil {
		return nil, errors.ErrNotFound("parcel")
	}

	return ToParcelDTO(parcel), nil
}

// ListParcels retrieves a paginated list of parcels
func (s *ParcelApplicationService) ListParcels(ctx context.Context, query ListParcelsQuery) (*ListResponse[ParcelDTO], error) {
	pagination := clampPagination(query.Page, query.PageSize)

	filter := domain.ParcelFilter{}
	if query.Status != nil {
		status := domain.ParcelStatus(*query.Status)
		if !status.IsValid() {
			return nil, errors.ErrValidation("invalid parcel status filter")
		}
		filter.Status = &status
	}
	if query.PaymentStatus != nil {
		paymentStatus := domain.PaymentStatus(*query.PaymentStatus)
		if !paymentStatus.IsValid() {
			return nil, errors.ErrValidation("invalid payment status filter")
		}
		filter.PaymentStatus = &paymentStatus
	}

	total, err := s.parcelRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count parcels: %w", err)
	}

	parcels, err := s.parcelRepo.FindAll(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}

	dtos := make([]ParcelDTO, len(parcels))
	for i, parcel := range parcels {
		dtos[i] = *ToParcelDTO(parcel)
	}

	return &ListResponse[ParcelDTO]{
		Data:       dtos,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages(total, pagination.PageSize),
	}, nil
}

// UpdateParcel updates a parcel, reconciling stock by the set difference of
// product quantities when the product list is present
func (s *ParcelApplicationService) UpdateParcel(ctx context.Context, cmd UpdateParcelCommand) (*ParcelDTO, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, cmd.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}
	if parcel == nil {
		return nil, errors.ErrNotFound("parcel")
	}

	if cmd.TrackingNumber != "" && cmd.TrackingNumber != parcel.TrackingNumber {
		existing, err := s.parcelRepo.FindByTrackingNumber(ctx, cmd.TrackingNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check tracking number: %w", err)
		}
		if existing != nil {
			return nil, errors.ErrConflict("parcel with this tracking number already exists")
		}
		parcel.TrackingNumber = cmd.TrackingNumber
	}

	var plan domain.StockPlan
	if cmd.Products != nil {
		newLines, err := s.resolveLines(ctx, cmd.Products)
		if err != nil {
			return nil, err
		}

		plan = domain.DiffProductLines(parcel.EffectiveProductLines(), newLines)
		if err := s.stockLedger.Validate(ctx, plan); err != nil {
			return nil, errors.MapDomainError(err)
		}
		if err := s.stockLedger.Apply(ctx, "parcel_update", plan); err != nil {
			return nil, errors.MapDomainError(err)
		}

		if err := parcel.SetProductLines(newLines); err != nil {
			s.stockLedger.Rollback(ctx, plan)
			return nil, errors.ErrValidation(err.Error())
		}
	}

	if cmd.Recipient != "" {
		parcel.Recipient = cmd.Recipient
	}
	if cmd.Phone != "" {
		parcel.Phone = cmd.Phone
	}
	if cmd.Address != "" {
		parcel.Address = cmd.Address
	}
	if cmd.CODAmount != nil {
		parcel.CODAmount = *cmd.CODAmount
	}
	if cmd.PaymentStatus != "" {
		if err := parcel.SetPaymentStatus(domain.PaymentStatus(cmd.PaymentStatus)); err != nil {
			s.stockLedger.Rollback(ctx, plan)
			return nil, errors.ErrValidation(err.Error())
		}
	}

	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return nil, fmt.Errorf("failed to save parcel: %w", err)
	}

	s.logger.Info("Parcel updated", "parcelId", parcel.ParcelID)

	return ToParcelDTO(parcel), nil
}

// UpdateParcelStatus transitions the courier status, restoring stock exactly
// once on the transition into return
func (s *ParcelApplicationService) UpdateParcelStatus(ctx context.Context, cmd UpdateParcelStatusCommand) (*ParcelDTO, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, cmd.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}
	if parcel == nil {
		return nil, errors.ErrNotFound("parcel")
	}

	restoreStock, err := parcel.TransitionStatus(domain.ParcelStatus(cmd.Status))
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if restoreStock {
		if err := s.stockLedger.Apply(ctx, "parcel_return", parcel.RestorationPlan()); err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err := s.parcelRepo.Save(ctx, parcel); err != nil {
		if restoreStock {
			s.stockLedger.Rollback(ctx, parcel.RestorationPlan())
		}
		return nil, fmt.Errorf("failed to save parcel: %w", err)
	}

	s.publishEvents(ctx, parcel.DomainEvents())
	parcel.ClearDomainEvents()

	s.logger.Info("Parcel status updated", "parcelId", parcel.ParcelID, "status", cmd.Status, "stockRestored", restoreStock)

	return ToParcelDTO(parcel), nil
}

// DeleteParcel removes a parcel, always restoring its currently-held
// quantities regardless of status
func (s *ParcelApplicationService) DeleteParcel(ctx context.Context, parcelID string) error {
	parcel, err := s.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		return fmt.Errorf("failed to get parcel: %w", err)
	}
	if parcel == nil {
		return errors.ErrNotFound("parcel")
	}

	plan := parcel.RestorationPlan()
	if err := s.stockLedger.Apply(ctx, "parcel_delete", plan); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := s.parcelRepo.Delete(ctx, parcelID); err != nil {
		s.stockLedger.Rollback(ctx, plan)
		return fmt.Errorf("failed to delete parcel: %w", err)
	}

	s.logger.Info("Parcel deleted", "parcelId", parcelID)

	return nil
}

// resolveLines normalizes the input lines and denormalizes product details
func (s *ParcelApplicationService) resolveLines(ctx context.Context, inputs []ProductLineInput) ([]domain.ProductLine, error) {
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

func (s *ParcelApplicationService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.SideEffectFailure(ctx, "event_publish", err, nil)
	}
}
