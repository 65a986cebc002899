package order

import (
	"context"

	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
)

type IDGenerator interface {
	NewID() string
}

// ProductInfo is the coordinator's read model of one stock record.
type ProductInfo struct {
	ID        string
	UnitPrice int64
	Stock     int
}

// ProfileInfo is the coordinator's view of a resolved profile.
type ProfileInfo struct {
	ID         string
	IdentityID string
}

// RecordPayment is one append-only entry for the payment ledger. Amount is
// signed: positive for a payment, negative for a refund.
type RecordPayment struct {
	OrderID    string
	IdentityID string
	Amount     int64
	Status     payment.Status
}

// Collaborator gateways. Implementations (in-process ledgers or HTTP
// clients for the remote services) normalize their failures into the
// domain errors once at this boundary: inventory.ErrNotFound,
// *inventory.ShortfallError, wallet.ErrNotFound,
// *wallet.InsufficientFundsError, profile.ErrNotFound, and
// ErrUpstreamUnavailable for transport-level failures.

type InventoryGateway interface {
	GetStock(ctx context.Context, productID string) (ProductInfo, error)
	Reserve(ctx context.Context, productID string, quantity int) (remaining int, err error)
	Release(ctx context.Context, productID string, quantity int) (remaining int, err error)
}

type WalletGateway interface {
	Debit(ctx context.Context, profileID string, amount int64) (balance int64, err error)
	Credit(ctx context.Context, profileID string, amount int64) (balance int64, err error)
}

type ProfileGateway interface {
	ResolveProfile(ctx context.Context, identityID string) (ProfileInfo, error)
}

type PaymentRecorder interface {
	Record(ctx context.Context, rec RecordPayment) error
}
