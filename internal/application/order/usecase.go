package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
	domoutbox "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/outbox"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService      = "order-service"
	useCasePlaceOrder = "order.place"
	spanPrefix        = "UC."
	publishTimeout    = 300 * time.Millisecond
)

// PlaceOrderUseCase runs the order saga: validate the cart, debit the
// wallet, reserve stock per line item, then persist the payment record and
// the order aggregate. A reservation failure after the debit triggers
// best-effort compensation (release reserved stock, refund the wallet,
// append a refund record) before the saga aborts.
type PlaceOrderUseCase struct {
	orders    domain.Repository
	inventory InventoryGateway
	wallets   WalletGateway
	profiles  ProfileGateway
	payments  PaymentRecorder

	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	tel         observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	compCounter  observability.Counter   // saga_compensations_total{step,outcome}
}

func NewPlaceOrderUseCase(
	orders domain.Repository,
	inventory InventoryGateway,
	wallets WalletGateway,
	profiles ProfileGateway,
	payments PaymentRecorder,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(observability.F("service", orderService))
	metrics := tel.Metrics()

	return &PlaceOrderUseCase{
		orders:       orders,
		inventory:    inventory,
		wallets:      wallets,
		profiles:     profiles,
		payments:     payments,
		idGenerator:  idGen,
		publisher:    publisher,
		tel:          tel,
		log:          baseLog,
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		compCounter:  metrics.Counter(observability.MSagaCompensations),
	}
}

type ItemRequest struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	IdentityID string
	Items      []ItemRequest
}

// Execute runs the saga for one order request. Concurrent invocations are
// independent; per-record atomicity lives in the ledgers, not here.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, input PlaceOrderInput) (_ *domain.Order, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCasePlaceOrder))

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.identity_id", input.IdentityID),
		attribute.Int("order.item_count", len(input.Items)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePlaceOrder),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat,
			observability.L("use_case", useCasePlaceOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	// Validating: input checks first, no side effects anywhere on violation.
	if input.IdentityID == "" {
		outcome, statusText = "error", "IDENTITY_ID_REQUIRED"
		return nil, fmt.Errorf("%w: identity id is required", ErrInvalidRequest)
	}
	if len(input.Items) == 0 {
		outcome, statusText = "error", "EMPTY_CART"
		return nil, fmt.Errorf("%w: order must contain items", ErrInvalidRequest)
	}
	for _, it := range input.Items {
		if it.ProductID == "" {
			outcome, statusText = "error", "PRODUCT_ID_REQUIRED"
			return nil, fmt.Errorf("%w: product id is required", ErrInvalidRequest)
		}
		if it.Quantity <= 0 {
			outcome, statusText = "error", "QUANTITY_INVALID"
			return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidRequest)
		}
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	prof, err := uc.profiles.ResolveProfile(ctx, input.IdentityID)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrNotFound):
			outcome, statusText = "error", "UNKNOWN_IDENTITY"
			return nil, fmt.Errorf("%w: %s", ErrUnknownIdentity, input.IdentityID)
		case errors.Is(err, ErrUpstreamUnavailable):
			outcome, statusText = "error", "PROFILE_UNAVAILABLE"
			return nil, err
		default:
			outcome, statusText = "error", "PROFILE_RESOLVE_FAILED"
			return nil, fmt.Errorf("order: resolve profile: %w", err)
		}
	}

	// Read-only validation of the whole cart before any mutation, so a
	// doomed order never leaves partial reservations behind. Prices are
	// captured here; later catalog changes do not affect this order.
	items := make([]domain.LineItem, 0, len(input.Items))
	var total int64
	for _, it := range input.Items {
		info, err := uc.inventory.GetStock(ctx, it.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, ErrUpstreamUnavailable):
				outcome, statusText = "error", "INVENTORY_UNAVAILABLE"
				return nil, err
			case errors.Is(err, inventory.ErrNotFound):
				outcome, statusText = "error", "UNKNOWN_PRODUCT"
				return nil, &UnknownProductError{ProductID: it.ProductID}
			default:
				// A storage or transport fault is not a referential
				// failure; telling the caller to drop the item would be
				// wrong.
				outcome, statusText = "error", "STOCK_READ_FAILED"
				return nil, fmt.Errorf("order: read stock for %s: %w", it.ProductID, err)
			}
		}
		if info.Stock < it.Quantity {
			outcome, statusText = "error", "INSUFFICIENT_STOCK"
			span.SetAttributes(attribute.String("order.rejected_product_id", it.ProductID))
			return nil, &inventory.ShortfallError{ProductID: it.ProductID, Requested: it.Quantity, Available: info.Stock}
		}
		items = append(items, domain.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: info.UnitPrice,
		})
		total += int64(it.Quantity) * info.UnitPrice
	}
	span.SetAttributes(attribute.Int64("order.total_amount", total))

	// Paying. Validation is advisory, the debit is the first mutation.
	// The refund reference is provisional: the real order id does not
	// exist until commit.
	refundRef := uc.idGenerator.NewID()
	if _, err := uc.wallets.Debit(ctx, prof.ID, total); err != nil {
		var funds *wallet.InsufficientFundsError
		switch {
		case errors.As(err, &funds):
			outcome, statusText = "error", "PAYMENT_DECLINED"
			declined := &PaymentDeclinedError{Balance: funds.Balance, Cause: err}
			// The debit never applied, so there is nothing to undo.
			uc.publishEvent(ctx, logger, domain.NewOrderRejectedEvent(input.IdentityID, declined.Error(), true))
			return nil, declined
		case errors.Is(err, wallet.ErrNotFound):
			// Profile resolved moments ago but the wallet is gone: a
			// cross-service inconsistency, not a caller mistake.
			logger.Error("wallet_missing_after_resolve",
				observability.F("profile_id", prof.ID),
			)
			outcome, statusText = "error", "WALLET_MISSING"
			declined := &PaymentDeclinedError{Cause: err}
			uc.publishEvent(ctx, logger, domain.NewOrderRejectedEvent(input.IdentityID, declined.Error(), true))
			return nil, declined
		case errors.Is(err, ErrUpstreamUnavailable):
			// Retryable by the caller, not a business rejection.
			outcome, statusText = "error", "WALLET_UNAVAILABLE"
			return nil, err
		default:
			outcome, statusText = "error", "DEBIT_FAILED"
			payErr := fmt.Errorf("%w: %w", ErrPaymentFailed, err)
			uc.publishEvent(ctx, logger, domain.NewOrderRejectedEvent(input.IdentityID, payErr.Error(), true))
			return nil, payErr
		}
	}

	// Reserving, in request order. Stock may have moved since validation.
	reserved := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		if _, err := uc.inventory.Reserve(ctx, it.ProductID, it.Quantity); err != nil {
			span.AddEvent("order.reservation_failed",
				trace.WithAttributes(attribute.String("order.product_id", it.ProductID)),
			)
			compensated := uc.compensate(ctx, logger, prof.ID, input.IdentityID, refundRef, total, reserved)
			outcome, statusText = "error", "RESERVATION_FAILED"
			resErr := &ReservationError{ProductID: it.ProductID, Cause: err}
			uc.publishEvent(ctx, logger, domain.NewOrderRejectedEvent(input.IdentityID, resErr.Error(), compensated))
			return nil, resErr
		}
		reserved = append(reserved, it)
	}

	// Committing: payment record first, then the aggregate. Both live in
	// storage this service owns. A failure past this point is not
	// compensated; it is logged loudly instead (funds and stock are
	// already taken).
	orderID := uc.idGenerator.NewID()
	if err := uc.payments.Record(ctx, RecordPayment{
		OrderID:    orderID,
		IdentityID: input.IdentityID,
		Amount:     total,
		Status:     payment.StatusPaid,
	}); err != nil {
		logger.Error("payment_record_failed_after_commit",
			observability.F("order_id", orderID),
			observability.F("amount", total),
			observability.F("error", err.Error()),
		)
		outcome, statusText = "error", "PAYMENT_RECORD_FAILED"
		return nil, fmt.Errorf("order: record payment: %w", err)
	}

	entity, err := domain.New(orderID, input.IdentityID, items)
	if err != nil {
		outcome, statusText = "error", "DOMAIN_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("order: construct: %w", err)
	}
	if err := uc.orders.Insert(ctx, entity); err != nil {
		logger.Error("order_persist_failed_after_commit",
			observability.F("order_id", orderID),
			observability.F("identity_id", input.IdentityID),
			observability.F("amount", total),
			observability.F("error", err.Error()),
		)
		outcome, statusText = "error", "ORDER_PERSIST_FAILED"
		return nil, fmt.Errorf("order: persist: %w", err)
	}

	span.SetAttributes(attribute.String("order.id", entity.ID))
	span.AddEvent("order.completed",
		trace.WithAttributes(attribute.String("order.id", entity.ID)),
	)
	uc.publishEvent(ctx, logger, domain.NewOrderCompletedEvent(entity))

	return entity, nil
}

// compensate undoes the side effects of a saga that failed during
// reservation: releases stock reserved earlier in this invocation (request
// order; release is commutative per product), refunds the debit, and
// appends the refund record. Best-effort: failures are logged and counted
// but never retried, and the saga aborts regardless.
func (uc *PlaceOrderUseCase) compensate(
	ctx context.Context,
	logger observability.Logger,
	profileID, identityID, refundRef string,
	total int64,
	reserved []domain.LineItem,
) bool {
	// Compensation must run even when the request context is already done.
	ctx = context.WithoutCancel(ctx)
	compensated := true

	for _, it := range reserved {
		if _, err := uc.inventory.Release(ctx, it.ProductID, it.Quantity); err != nil {
			compensated = false
			logger.Error("compensation_release_failed",
				observability.F("product_id", it.ProductID),
				observability.F("quantity", it.Quantity),
				observability.F("error", err.Error()),
			)
			uc.compCounter.Add(1,
				observability.L("step", "release"),
				observability.L("outcome", "failed"),
			)
			continue
		}
		uc.compCounter.Add(1,
			observability.L("step", "release"),
			observability.L("outcome", "success"),
		)
	}

	if _, err := uc.wallets.Credit(ctx, profileID, total); err != nil {
		compensated = false
		logger.Error("compensation_refund_failed",
			observability.F("profile_id", profileID),
			observability.F("amount", total),
			observability.F("error", err.Error()),
		)
		uc.compCounter.Add(1,
			observability.L("step", "refund"),
			observability.L("outcome", "failed"),
		)
	} else {
		uc.compCounter.Add(1,
			observability.L("step", "refund"),
			observability.L("outcome", "success"),
		)
		if err := uc.payments.Record(ctx, RecordPayment{
			OrderID:    refundRef,
			IdentityID: identityID,
			Amount:     -total,
			Status:     payment.StatusRefunded,
		}); err != nil {
			compensated = false
			logger.Error("compensation_record_failed",
				observability.F("refund_ref", refundRef),
				observability.F("error", err.Error()),
			)
		}
	}

	if !compensated {
		// Operator signal only; the client still gets the business
		// rejection because the order did fail from their point of view.
		logger.Error("compensation_incomplete",
			observability.F("profile_id", profileID),
			observability.F("refund_ref", refundRef),
			observability.F("amount", total),
		)
	}
	return compensated
}

func (uc *PlaceOrderUseCase) publishEvent(ctx context.Context, logger observability.Logger, e domoutbox.Event) {
	if uc.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.publisher.Publish(pubCtx, e); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
}
