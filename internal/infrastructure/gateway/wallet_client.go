package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
)

// WalletClient talks to a remote wallet service, which also hosts the
// profile directory and the payment ledger.
type WalletClient struct {
	c *client
}

func NewWalletClient(baseURL string, timeout time.Duration, tel observability.Observability) *WalletClient {
	return &WalletClient{c: newClient(baseURL, "wallet", timeout, tel)}
}

type profileResponse struct {
	ID         string `json:"id"`
	IdentityID string `json:"identityId"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type recordPaymentRequest struct {
	OrderID    string `json:"orderId"`
	IdentityID string `json:"identityId"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}

func (g *WalletClient) ResolveProfile(ctx context.Context, identityID string) (apporder.ProfileInfo, error) {
	var resp profileResponse
	err := g.c.do(ctx, http.MethodGet, "/profiles/by-identity/"+identityID, "resolve_profile", nil, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusNotFound {
				return apporder.ProfileInfo{}, profile.ErrNotFound
			}
			return apporder.ProfileInfo{}, g.c.upstream(se)
		}
		return apporder.ProfileInfo{}, err
	}
	return apporder.ProfileInfo{ID: resp.ID, IdentityID: resp.IdentityID}, nil
}

func (g *WalletClient) Debit(ctx context.Context, profileID string, amount int64) (int64, error) {
	var resp balanceResponse
	err := g.c.do(ctx, http.MethodPost, "/profiles/"+profileID+"/wallet/debit", "debit", amountRequest{Amount: amount}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			switch se.code {
			case http.StatusNotFound:
				return 0, wallet.ErrNotFound
			case http.StatusConflict:
				var detail balanceResponse
				se.decodeInto(&detail)
				return 0, &wallet.InsufficientFundsError{
					ProfileID: profileID,
					Requested: amount,
					Balance:   detail.Balance,
				}
			}
			return 0, g.c.upstream(se)
		}
		return 0, err
	}
	return resp.Balance, nil
}

func (g *WalletClient) Credit(ctx context.Context, profileID string, amount int64) (int64, error) {
	var resp balanceResponse
	err := g.c.do(ctx, http.MethodPost, "/profiles/"+profileID+"/wallet/credit", "credit", amountRequest{Amount: amount}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusNotFound {
				return 0, wallet.ErrNotFound
			}
			return 0, g.c.upstream(se)
		}
		return 0, err
	}
	return resp.Balance, nil
}

func (g *WalletClient) Record(ctx context.Context, rec apporder.RecordPayment) error {
	req := recordPaymentRequest{
		OrderID:    rec.OrderID,
		IdentityID: rec.IdentityID,
		Amount:     rec.Amount,
		Status:     string(rec.Status),
	}
	err := g.c.do(ctx, http.MethodPost, "/payments", "record_payment", req, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return g.c.upstream(se)
		}
		return err
	}
	return nil
}
