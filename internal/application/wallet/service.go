package wallet

import (
	"context"
	"fmt"

	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability/logctx"
)

const componentWallet = "wallet_service"

type IDGenerator interface {
	NewID() string
}

// Service is the profile directory plus the wallet ledger: profile
// creation and resolution, atomic debit/credit, and the append-only
// payment history.
type Service struct {
	profiles    profile.Directory
	wallets     domain.Repository
	payments    payment.Ledger
	idGenerator IDGenerator
	log         observability.Logger
}

func NewService(
	profiles profile.Directory,
	wallets domain.Repository,
	payments payment.Ledger,
	idGen IDGenerator,
	logger observability.Logger,
) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		profiles:    profiles,
		wallets:     wallets,
		payments:    payments,
		idGenerator: idGen,
		log:         logger.With(observability.F("component", componentWallet)),
	}
}

type CreateProfileInput struct {
	IdentityID     string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	InitialBalance int64
}

// CreateProfile creates the profile record and its wallet together.
func (s *Service) CreateProfile(ctx context.Context, input CreateProfileInput) (*profile.Profile, error) {
	entity, err := profile.New(s.idGenerator.NewID(), input.IdentityID, input.FirstName, input.LastName, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}
	w, err := domain.New(entity.ID, input.InitialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, entity); err != nil {
		return nil, err
	}
	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("wallet: create: %w", err)
	}

	logctx.FromOr(ctx, s.log).Info("profile_created",
		observability.F("profile_id", entity.ID),
		observability.F("identity_id", entity.IdentityID),
		observability.F("initial_balance", input.InitialBalance),
	)
	return entity, nil
}

// ResolveProfile translates an external identity id into the profile record.
func (s *Service) ResolveProfile(ctx context.Context, identityID string) (*profile.Profile, error) {
	if identityID == "" {
		return nil, profile.ErrInvalidIdentity
	}
	return s.profiles.GetByIdentity(ctx, identityID)
}

func (s *Service) Balance(ctx context.Context, profileID string) (int64, error) {
	w, err := s.wallets.Get(ctx, profileID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (s *Service) Debit(ctx context.Context, profileID string, amount int64) (int64, error) {
	balance, err := s.wallets.Debit(ctx, profileID, amount)
	if err != nil {
		return 0, err
	}
	logctx.FromOr(ctx, s.log).Info("wallet_debited",
		observability.F("profile_id", profileID),
		observability.F("amount", amount),
		observability.F("balance", balance),
	)
	return balance, nil
}

func (s *Service) Credit(ctx context.Context, profileID string, amount int64) (int64, error) {
	balance, err := s.wallets.Credit(ctx, profileID, amount)
	if err != nil {
		return 0, err
	}
	logctx.FromOr(ctx, s.log).Info("wallet_credited",
		observability.F("profile_id", profileID),
		observability.F("amount", amount),
		observability.F("balance", balance),
	)
	return balance, nil
}

type RecordPaymentInput struct {
	OrderID    string
	IdentityID string
	Amount     int64
	Status     payment.Status
}

// RecordPayment appends one entry to the payment ledger.
func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*payment.Record, error) {
	rec, err := payment.NewRecord(s.idGenerator.NewID(), input.OrderID, input.IdentityID, input.Amount, input.Status)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("wallet: record payment: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("payment_recorded",
		observability.F("order_id", rec.OrderID),
		observability.F("amount", rec.Amount),
		observability.F("status", string(rec.Status)),
	)
	return rec, nil
}

func (s *Service) PaymentsByOrder(ctx context.Context, orderID string) ([]*payment.Record, error) {
	return s.payments.ListByOrder(ctx, orderID)
}
