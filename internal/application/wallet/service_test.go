package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domainpayment "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	domainprofile "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/id"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/memory"
)

func newService() *Service {
	return NewService(
		memory.NewProfileRepository(),
		memory.NewWalletRepository(),
		memory.NewPaymentRepository(),
		id.NewGenerator(),
		nil,
	)
}

func TestCreateProfileOpensWallet(t *testing.T) {
	svc := newService()

	prof, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		IdentityID:     "alice",
		FirstName:      "Alice",
		LastName:       "Ng",
		Email:          "alice@example.com",
		InitialBalance: 500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, prof.ID)

	balance, err := svc.Balance(context.Background(), prof.ID)
	require.NoError(t, err)
	require.Equal(t, int64(500), balance)
}

func TestCreateProfileRejectsDuplicateIdentity(t *testing.T) {
	svc := newService()

	_, err := svc.CreateProfile(context.Background(), CreateProfileInput{IdentityID: "alice"})
	require.NoError(t, err)

	_, err = svc.CreateProfile(context.Background(), CreateProfileInput{IdentityID: "alice"})
	require.ErrorIs(t, err, domainprofile.ErrAlreadyExists)
}

func TestResolveProfile(t *testing.T) {
	svc := newService()

	created, err := svc.CreateProfile(context.Background(), CreateProfileInput{IdentityID: "alice"})
	require.NoError(t, err)

	resolved, err := svc.ResolveProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, resolved.ID)

	_, err = svc.ResolveProfile(context.Background(), "nobody")
	require.ErrorIs(t, err, domainprofile.ErrNotFound)

	_, err = svc.ResolveProfile(context.Background(), "")
	require.ErrorIs(t, err, domainprofile.ErrInvalidIdentity)
}

func TestRecordPaymentAndHistory(t *testing.T) {
	svc := newService()

	paid, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:    "ord-1",
		IdentityID: "alice",
		Amount:     2250,
		Status:     domainpayment.StatusPaid,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2250), paid.Amount)

	_, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:    "refund-ref-1",
		IdentityID: "alice",
		Amount:     -2250,
		Status:     domainpayment.StatusRefunded,
	})
	require.NoError(t, err)

	history, err := svc.PaymentsByOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, domainpayment.StatusPaid, history[0].Status)
}

func TestRecordPaymentRejectsZeroAmount(t *testing.T) {
	svc := newService()

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: "ord-1", IdentityID: "alice", Amount: 0, Status: domainpayment.StatusPaid,
	})
	require.ErrorIs(t, err, domainpayment.ErrInvalidAmount)
}
