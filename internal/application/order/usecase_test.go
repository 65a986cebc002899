package order

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	domain "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
	domoutbox "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/outbox"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
)

// --- fakes

type fakeProduct struct {
	price int64
	stock int
}

type fakeInventory struct {
	mu         sync.Mutex
	products   map[string]*fakeProduct
	getErr     error
	reserveErr map[string]error
	releaseErr map[string]error
	reserved   []string
	released   []string
	onReserve  func()
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		products:   map[string]*fakeProduct{},
		reserveErr: map[string]error{},
		releaseErr: map[string]error{},
	}
}

func (f *fakeInventory) GetStock(_ context.Context, productID string) (ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return ProductInfo{}, f.getErr
	}
	p, ok := f.products[productID]
	if !ok {
		return ProductInfo{}, inventory.ErrNotFound
	}
	return ProductInfo{ID: productID, UnitPrice: p.price, Stock: p.stock}, nil
}

func (f *fakeInventory) Reserve(_ context.Context, productID string, quantity int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onReserve != nil {
		f.onReserve()
	}
	if err := f.reserveErr[productID]; err != nil {
		return 0, err
	}
	p, ok := f.products[productID]
	if !ok {
		return 0, inventory.ErrNotFound
	}
	if p.stock < quantity {
		return 0, &inventory.ShortfallError{ProductID: productID, Requested: quantity, Available: p.stock}
	}
	p.stock -= quantity
	f.reserved = append(f.reserved, productID)
	return p.stock, nil
}

func (f *fakeInventory) Release(_ context.Context, productID string, quantity int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.releaseErr[productID]; err != nil {
		return 0, err
	}
	p, ok := f.products[productID]
	if !ok {
		return 0, inventory.ErrNotFound
	}
	p.stock += quantity
	f.released = append(f.released, productID)
	return p.stock, nil
}

type fakeWallet struct {
	mu       sync.Mutex
	balances map[string]int64
	debitErr error
	credits  []int64
}

func (f *fakeWallet) Debit(_ context.Context, profileID string, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.debitErr != nil {
		return 0, f.debitErr
	}
	balance, ok := f.balances[profileID]
	if !ok {
		return 0, wallet.ErrNotFound
	}
	if balance < amount {
		return 0, &wallet.InsufficientFundsError{ProfileID: profileID, Requested: amount, Balance: balance}
	}
	f.balances[profileID] = balance - amount
	return f.balances[profileID], nil
}

func (f *fakeWallet) Credit(_ context.Context, profileID string, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[profileID]
	if !ok {
		return 0, wallet.ErrNotFound
	}
	f.balances[profileID] = balance + amount
	f.credits = append(f.credits, amount)
	return f.balances[profileID], nil
}

type fakeProfiles struct {
	byIdentity map[string]ProfileInfo
	err        error
}

func (f *fakeProfiles) ResolveProfile(_ context.Context, identityID string) (ProfileInfo, error) {
	if f.err != nil {
		return ProfileInfo{}, f.err
	}
	p, ok := f.byIdentity[identityID]
	if !ok {
		return ProfileInfo{}, profile.ErrNotFound
	}
	return p, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []RecordPayment
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, rec RecordPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	inserted  []*domain.Order
	insertErr error
}

func (f *fakeOrders) Insert(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, o)
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.inserted {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrders) ListByIdentity(_ context.Context, identityID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.inserted {
		if o.IdentityID == identityID {
			out = append(out, o)
		}
	}
	return out, nil
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domoutbox.Event
}

func (p *capturePublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// --- harness

type sagaFixture struct {
	inventory *fakeInventory
	wallets   *fakeWallet
	profiles  *fakeProfiles
	recorder  *fakeRecorder
	orders    *fakeOrders
	publisher *capturePublisher
	uc        *PlaceOrderUseCase
}

func newSagaFixture() *sagaFixture {
	f := &sagaFixture{
		inventory: newFakeInventory(),
		wallets:   &fakeWallet{balances: map[string]int64{}},
		profiles:  &fakeProfiles{byIdentity: map[string]ProfileInfo{}},
		recorder:  &fakeRecorder{},
		orders:    &fakeOrders{},
		publisher: &capturePublisher{},
	}
	f.profiles.byIdentity["alice"] = ProfileInfo{ID: "prof-alice", IdentityID: "alice"}
	f.wallets.balances["prof-alice"] = 10_000
	f.inventory.products["p1"] = &fakeProduct{price: 500, stock: 10}
	f.inventory.products["p2"] = &fakeProduct{price: 1250, stock: 4}

	f.uc = NewPlaceOrderUseCase(
		f.orders, f.inventory, f.wallets, f.profiles, f.recorder,
		&seqIDs{}, f.publisher, nil)
	return f
}

func twoItemCart() PlaceOrderInput {
	return PlaceOrderInput{
		IdentityID: "alice",
		Items: []ItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}
}

// --- tests

func TestPlaceOrderHappyPath(t *testing.T) {
	f := newSagaFixture()

	o, err := f.uc.Execute(context.Background(), twoItemCart())
	require.NoError(t, err)
	require.NotEmpty(t, o.ID)
	require.Equal(t, int64(2*500+1250), o.TotalAmount)

	// Stock decremented and wallet debited.
	require.Equal(t, 8, f.inventory.products["p1"].stock)
	require.Equal(t, 3, f.inventory.products["p2"].stock)
	require.Equal(t, int64(10_000-2250), f.wallets.balances["prof-alice"])

	// One Paid record keyed by the real order id.
	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	require.Equal(t, o.ID, rec.OrderID)
	require.Equal(t, payment.StatusPaid, rec.Status)
	require.Equal(t, int64(2250), rec.Amount)

	// Aggregate persisted with captured unit prices.
	require.Len(t, f.orders.inserted, 1)
	require.Equal(t, int64(500), f.orders.inserted[0].Items[0].UnitPrice)
	require.Equal(t, int64(1250), f.orders.inserted[0].Items[1].UnitPrice)

	require.Len(t, f.publisher.events, 1)
	completed, ok := f.publisher.events[0].(domain.OrderCompletedEvent)
	require.True(t, ok)
	require.Equal(t, o.ID, completed.OrderID)
}

func TestPlaceOrderInvalidInput(t *testing.T) {
	f := newSagaFixture()

	cases := []PlaceOrderInput{
		{IdentityID: "", Items: []ItemRequest{{ProductID: "p1", Quantity: 1}}},
		{IdentityID: "alice"},
		{IdentityID: "alice", Items: []ItemRequest{{ProductID: "", Quantity: 1}}},
		{IdentityID: "alice", Items: []ItemRequest{{ProductID: "p1", Quantity: 0}}},
		{IdentityID: "alice", Items: []ItemRequest{{ProductID: "p1", Quantity: -3}}},
	}
	for _, input := range cases {
		_, err := f.uc.Execute(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}

	// Validation failures leave no trace anywhere.
	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])
	require.Empty(t, f.inventory.reserved)
	require.Empty(t, f.recorder.records)
	require.Empty(t, f.orders.inserted)
}

func TestPlaceOrderUnknownIdentity(t *testing.T) {
	f := newSagaFixture()

	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		IdentityID: "nobody",
		Items:      []ItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrUnknownIdentity)
	require.Empty(t, f.recorder.records)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newSagaFixture()

	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		IdentityID: "alice",
		Items: []ItemRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "ghost", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrUnknownProduct)

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "ghost", unknown.ProductID)

	// Whole-cart validation failed, so nothing was debited or reserved.
	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])
	require.Empty(t, f.inventory.reserved)
}

func TestPlaceOrderStockReadFailureIsNotUnknownProduct(t *testing.T) {
	f := newSagaFixture()
	f.inventory.getErr = fmt.Errorf("postgres: get product: connection refused")

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.Error(t, err)

	// An infrastructure fault must not masquerade as a bad product id.
	require.NotErrorIs(t, err, ErrUnknownProduct)
	require.ErrorContains(t, err, "connection refused")

	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])
	require.Empty(t, f.inventory.reserved)
	require.Empty(t, f.recorder.records)
}

func TestPlaceOrderInsufficientStockBeforeAnyMutation(t *testing.T) {
	f := newSagaFixture()

	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		IdentityID: "alice",
		Items:      []ItemRequest{{ProductID: "p2", Quantity: 99}},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	var shortfall *inventory.ShortfallError
	require.ErrorAs(t, err, &shortfall)
	require.Equal(t, 4, shortfall.Available)

	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])
	require.Empty(t, f.inventory.reserved)
	require.Empty(t, f.recorder.records)
}

func TestPlaceOrderPaymentDeclined(t *testing.T) {
	f := newSagaFixture()
	f.wallets.balances["prof-alice"] = 100

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.ErrorIs(t, err, ErrPaymentFailed)

	var declined *PaymentDeclinedError
	require.ErrorAs(t, err, &declined)
	require.Equal(t, int64(100), declined.Balance)

	// Reservation never started, nothing to compensate.
	require.Empty(t, f.inventory.reserved)
	require.Empty(t, f.recorder.records)
	require.Empty(t, f.orders.inserted)

	// The declined saga still terminates with a rejection event.
	require.Len(t, f.publisher.events, 1)
	rejected, ok := f.publisher.events[0].(domain.OrderRejectedEvent)
	require.True(t, ok)
	require.Equal(t, "alice", rejected.IdentityID)
	require.True(t, rejected.Compensated)
}

func TestPlaceOrderWalletMissingAfterResolve(t *testing.T) {
	f := newSagaFixture()
	delete(f.wallets.balances, "prof-alice")

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.ErrorIs(t, err, ErrPaymentFailed)
	require.Empty(t, f.inventory.reserved)

	require.Len(t, f.publisher.events, 1)
	rejected, ok := f.publisher.events[0].(domain.OrderRejectedEvent)
	require.True(t, ok)
	require.True(t, rejected.Compensated)
}

func TestPlaceOrderReservationFailureCompensates(t *testing.T) {
	f := newSagaFixture()
	f.inventory.reserveErr["p2"] = &inventory.ShortfallError{ProductID: "p2", Requested: 1, Available: 0}

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.ErrorIs(t, err, ErrReservationFailed)

	var resErr *ReservationError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, "p2", resErr.ProductID)

	// p1 was reserved before the failure and must come back.
	require.Equal(t, []string{"p1"}, f.inventory.reserved)
	require.Equal(t, []string{"p1"}, f.inventory.released)
	require.Equal(t, 10, f.inventory.products["p1"].stock)

	// Wallet refunded in full.
	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])
	require.Equal(t, []int64{2250}, f.wallets.credits)

	// One Refunded record with a negative amount under a provisional
	// reference (no order id exists on the failed path).
	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	require.Equal(t, payment.StatusRefunded, rec.Status)
	require.Equal(t, int64(-2250), rec.Amount)
	require.NotEmpty(t, rec.OrderID)

	require.Empty(t, f.orders.inserted)

	require.Len(t, f.publisher.events, 1)
	rejected, ok := f.publisher.events[0].(domain.OrderRejectedEvent)
	require.True(t, ok)
	require.True(t, rejected.Compensated)
}

func TestPlaceOrderCompensationIncomplete(t *testing.T) {
	f := newSagaFixture()
	f.inventory.reserveErr["p2"] = &inventory.ShortfallError{ProductID: "p2", Requested: 1, Available: 0}
	f.inventory.releaseErr["p1"] = ErrUpstreamUnavailable

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.ErrorIs(t, err, ErrReservationFailed)

	// The refund still went through even though the release failed.
	require.Equal(t, int64(10_000), f.wallets.balances["prof-alice"])

	require.Len(t, f.publisher.events, 1)
	rejected, ok := f.publisher.events[0].(domain.OrderRejectedEvent)
	require.True(t, ok)
	require.False(t, rejected.Compensated)
}

func TestPlaceOrderUpstreamUnavailablePassesThrough(t *testing.T) {
	f := newSagaFixture()
	f.profiles.err = ErrUpstreamUnavailable

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.Empty(t, f.inventory.reserved)
	require.Empty(t, f.recorder.records)
}

func TestPlaceOrderPriceCapturedAtValidation(t *testing.T) {
	f := newSagaFixture()

	// Catalog price changes after validation but before reservation.
	f.inventory.onReserve = func() {
		f.inventory.products["p1"].price = 9999
	}

	o, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		IdentityID: "alice",
		Items:      []ItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(500), o.TotalAmount)
	require.Equal(t, int64(500), o.Items[0].UnitPrice)
}

func TestPlaceOrderPersistFailureIsNotCompensated(t *testing.T) {
	f := newSagaFixture()
	f.orders.insertErr = fmt.Errorf("disk full")

	_, err := f.uc.Execute(context.Background(), twoItemCart())
	require.Error(t, err)

	// Funds and stock stay taken: the failure happened after commit
	// started, and the payment record is already appended.
	require.Equal(t, int64(10_000-2250), f.wallets.balances["prof-alice"])
	require.Equal(t, 8, f.inventory.products["p1"].stock)
	require.Empty(t, f.inventory.released)
	require.Len(t, f.recorder.records, 1)
	require.Equal(t, payment.StatusPaid, f.recorder.records[0].Status)
}
