// Package gateway adapts the order coordinator's collaborator ports onto
// either the in-process services (single binary deployment) or the remote
// inventory and wallet services over HTTP.
package gateway

import (
	"context"

	appinventory "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/inventory"
	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	appwallet "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/wallet"
)

// LocalInventoryGateway calls the in-process inventory service directly.
// Domain errors pass through unchanged; there is no transport to fail, so
// it never reports the upstream-unavailable condition.
type LocalInventoryGateway struct {
	svc *appinventory.Service
}

func NewLocalInventoryGateway(svc *appinventory.Service) *LocalInventoryGateway {
	return &LocalInventoryGateway{svc: svc}
}

func (g *LocalInventoryGateway) GetStock(ctx context.Context, productID string) (apporder.ProductInfo, error) {
	p, err := g.svc.GetStock(ctx, productID)
	if err != nil {
		return apporder.ProductInfo{}, err
	}
	return apporder.ProductInfo{ID: p.ID, UnitPrice: p.UnitPrice, Stock: p.Stock}, nil
}

func (g *LocalInventoryGateway) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	return g.svc.Reserve(ctx, productID, quantity)
}

func (g *LocalInventoryGateway) Release(ctx context.Context, productID string, quantity int) (int, error) {
	return g.svc.Release(ctx, productID, quantity)
}

type LocalWalletGateway struct {
	svc *appwallet.Service
}

func NewLocalWalletGateway(svc *appwallet.Service) *LocalWalletGateway {
	return &LocalWalletGateway{svc: svc}
}

func (g *LocalWalletGateway) Debit(ctx context.Context, profileID string, amount int64) (int64, error) {
	return g.svc.Debit(ctx, profileID, amount)
}

func (g *LocalWalletGateway) Credit(ctx context.Context, profileID string, amount int64) (int64, error) {
	return g.svc.Credit(ctx, profileID, amount)
}

type LocalProfileGateway struct {
	svc *appwallet.Service
}

func NewLocalProfileGateway(svc *appwallet.Service) *LocalProfileGateway {
	return &LocalProfileGateway{svc: svc}
}

func (g *LocalProfileGateway) ResolveProfile(ctx context.Context, identityID string) (apporder.ProfileInfo, error) {
	p, err := g.svc.ResolveProfile(ctx, identityID)
	if err != nil {
		return apporder.ProfileInfo{}, err
	}
	return apporder.ProfileInfo{ID: p.ID, IdentityID: p.IdentityID}, nil
}

type LocalPaymentRecorder struct {
	svc *appwallet.Service
}

func NewLocalPaymentRecorder(svc *appwallet.Service) *LocalPaymentRecorder {
	return &LocalPaymentRecorder{svc: svc}
}

func (g *LocalPaymentRecorder) Record(ctx context.Context, rec apporder.RecordPayment) error {
	_, err := g.svc.RecordPayment(ctx, appwallet.RecordPaymentInput{
		OrderID:    rec.OrderID,
		IdentityID: rec.IdentityID,
		Amount:     rec.Amount,
		Status:     rec.Status,
	})
	return err
}
