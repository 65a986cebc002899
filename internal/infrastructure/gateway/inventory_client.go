package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
)

// InventoryClient talks to a remote inventory service. It translates the
// wire statuses back into the same domain errors the in-process ledger
// returns, so the coordinator cannot tell the two deployments apart.
type InventoryClient struct {
	c *client
}

func NewInventoryClient(baseURL string, timeout time.Duration, tel observability.Observability) *InventoryClient {
	return &InventoryClient{c: newClient(baseURL, "inventory", timeout, tel)}
}

type productResponse struct {
	ID        string `json:"id"`
	UnitPrice int64  `json:"unitPrice"`
	Stock     int    `json:"stock"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type stockResponse struct {
	Remaining int `json:"remaining"`
}

type shortfallResponse struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (g *InventoryClient) GetStock(ctx context.Context, productID string) (apporder.ProductInfo, error) {
	var resp productResponse
	err := g.c.do(ctx, http.MethodGet, "/products/"+productID, "get_stock", nil, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusNotFound {
				return apporder.ProductInfo{}, inventory.ErrNotFound
			}
			return apporder.ProductInfo{}, g.c.upstream(se)
		}
		return apporder.ProductInfo{}, err
	}
	return apporder.ProductInfo{ID: resp.ID, UnitPrice: resp.UnitPrice, Stock: resp.Stock}, nil
}

func (g *InventoryClient) Reserve(ctx context.Context, productID string, quantity int) (int, error) {
	return g.mutate(ctx, "/products/"+productID+"/reserve", "reserve", productID, quantity)
}

func (g *InventoryClient) Release(ctx context.Context, productID string, quantity int) (int, error) {
	return g.mutate(ctx, "/products/"+productID+"/release", "release", productID, quantity)
}

func (g *InventoryClient) mutate(ctx context.Context, path, op, productID string, quantity int) (int, error) {
	var resp stockResponse
	err := g.c.do(ctx, http.MethodPost, path, op, quantityRequest{Quantity: quantity}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			switch se.code {
			case http.StatusNotFound:
				return 0, inventory.ErrNotFound
			case http.StatusConflict:
				var detail shortfallResponse
				se.decodeInto(&detail)
				return 0, &inventory.ShortfallError{
					ProductID: productID,
					Requested: quantity,
					Available: detail.Available,
				}
			}
			return 0, g.c.upstream(se)
		}
		return 0, err
	}
	return resp.Remaining, nil
}
