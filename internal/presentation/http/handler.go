// Package httppresentation exposes the order, inventory, wallet, and
// payment operations over HTTP. The same routes serve both deployments:
// a single binary running everything in process, or the inventory and
// wallet halves split out behind their own listeners.
package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appinventory "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/inventory"
	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	appwallet "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/wallet"
	domaininventory "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	domainorder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
	domainpayment "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	domainprofile "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	domainwallet "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
)

const componentHTTPHandler = "http_server"

type Handler struct {
	orders    *apporder.Service
	inventory *appinventory.Service
	wallet    *appwallet.Service
	log       observability.Logger
	tel       observability.Observability
}

func NewHandler(
	orders *apporder.Service,
	inventory *appinventory.Service,
	wallet *appwallet.Service,
	logger observability.Logger,
	tel observability.Observability,
) *Handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Handler{
		orders:    orders,
		inventory: inventory,
		wallet:    wallet,
		log:       logger.With(observability.F("component", componentHTTPHandler)),
		tel:       tel,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(observabilityMiddleware(h.log, h.tel))

	r.Post("/orders", h.handlePlaceOrder)
	r.Get("/orders/{orderID}", h.handleGetOrder)
	r.Get("/orders/owner/{identityID}", h.handleListOrders)

	r.Post("/products", h.handleCreateProduct)
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{productID}", h.handleGetProduct)
	r.Post("/products/{productID}/reserve", h.handleReserve)
	r.Post("/products/{productID}/release", h.handleRelease)

	r.Post("/profiles", h.handleCreateProfile)
	r.Get("/profiles/by-identity/{identityID}", h.handleResolveProfile)
	r.Get("/profiles/{profileID}/wallet", h.handleGetBalance)
	r.Post("/profiles/{profileID}/wallet/debit", h.handleDebit)
	r.Post("/profiles/{profileID}/wallet/credit", h.handleCredit)

	r.Post("/payments", h.handleRecordPayment)
	r.Get("/payments/order/{orderID}", h.handleListPayments)

	r.Get("/health", h.handleHealth)

	return r
}

// --- orders

type placeOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	IdentityID string           `json:"identityId"`
	Items      []placeOrderItem `json:"items"`
}

type orderItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	IdentityID  string              `json:"identityId"`
	Items       []orderItemResponse `json:"items"`
	TotalAmount int64               `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func toOrderResponse(o *domainorder.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return orderResponse{
		ID:          o.ID,
		IdentityID:  o.IdentityID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]apporder.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, apporder.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	o, err := h.orders.PlaceOrder(r.Context(), apporder.PlaceOrderInput{
		IdentityID: req.IdentityID,
		Items:      items,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ListByOwner(r.Context(), chi.URLParam(r, "identityID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- inventory

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unitPrice"`
	Stock       int    `json:"stock"`
}

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unitPrice"`
	Stock       int    `json:"stock"`
}

func toProductResponse(p *domaininventory.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.inventory.Create(r.Context(), appinventory.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Stock:       req.Stock,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.inventory.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.inventory.GetStock(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type stockResponse struct {
	Remaining int `json:"remaining"`
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	h.handleStockMutation(w, r, h.inventory.Reserve)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	h.handleStockMutation(w, r, h.inventory.Release)
}

func (h *Handler) handleStockMutation(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, productID string, quantity int) (int, error),
) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	remaining, err := mutate(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Remaining: remaining})
}

// --- profiles and wallets

type createProfileRequest struct {
	IdentityID     string `json:"identityId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	InitialBalance int64  `json:"initialBalance"`
}

type profileResponse struct {
	ID         string `json:"id"`
	IdentityID string `json:"identityId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func toProfileResponse(p *domainprofile.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		IdentityID: p.IdentityID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
	}
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.wallet.CreateProfile(r.Context(), appwallet.CreateProfileInput{
		IdentityID:     req.IdentityID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfileResponse(p))
}

func (h *Handler) handleResolveProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.wallet.ResolveProfile(r.Context(), chi.URLParam(r, "identityID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.wallet.Balance(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (h *Handler) handleDebit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	balance, err := h.wallet.Debit(r.Context(), chi.URLParam(r, "profileID"), req.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (h *Handler) handleCredit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	balance, err := h.wallet.Credit(r.Context(), chi.URLParam(r, "profileID"), req.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

// --- payments

type recordPaymentRequest struct {
	OrderID    string `json:"orderId"`
	IdentityID string `json:"identityId"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}

type paymentResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	IdentityID string    `json:"identityId"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

func toPaymentResponse(rec *domainpayment.Record) paymentResponse {
	return paymentResponse{
		ID:         rec.ID,
		OrderID:    rec.OrderID,
		IdentityID: rec.IdentityID,
		Amount:     rec.Amount,
		Status:     string(rec.Status),
		Timestamp:  rec.Timestamp,
	}
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := h.wallet.RecordPayment(r.Context(), appwallet.RecordPaymentInput{
		OrderID:    req.OrderID,
		IdentityID: req.IdentityID,
		Amount:     req.Amount,
		Status:     domainpayment.Status(req.Status),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(rec))
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.wallet.PaymentsByOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toPaymentResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// --- plumbing

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeDomainError maps the saga taxonomy and the ledger errors onto
// statuses. Conflict responses carry the detail fields the remote
// gateway clients decode back into typed errors.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var shortfall *domaininventory.ShortfallError
	var funds *domainwallet.InsufficientFundsError
	var declined *apporder.PaymentDeclinedError
	var unknownProduct *apporder.UnknownProductError
	var reservation *apporder.ReservationError

	switch {
	case errors.As(err, &shortfall):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"productId": shortfall.ProductID,
			"requested": shortfall.Requested,
			"available": shortfall.Available,
		})
	case errors.As(err, &funds):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   err.Error(),
			"balance": funds.Balance,
		})
	case errors.As(err, &declined):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   err.Error(),
			"balance": declined.Balance,
		})
	case errors.As(err, &reservation):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     err.Error(),
			"productId": reservation.ProductID,
		})
	case errors.As(err, &unknownProduct):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":     err.Error(),
			"productId": unknownProduct.ProductID,
		})
	case errors.Is(err, apporder.ErrInvalidRequest),
		errors.Is(err, domaininventory.ErrInvalidName),
		errors.Is(err, domaininventory.ErrInvalidPrice),
		errors.Is(err, domaininventory.ErrInvalidQuantity),
		errors.Is(err, domaininventory.ErrInvalidStock),
		errors.Is(err, domainwallet.ErrInvalidAmount),
		errors.Is(err, domainwallet.ErrInvalidBalance),
		errors.Is(err, domainprofile.ErrInvalidIdentity),
		errors.Is(err, domainorder.ErrNoItems),
		errors.Is(err, domainorder.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, apporder.ErrUnknownIdentity),
		errors.Is(err, domainorder.ErrNotFound),
		errors.Is(err, domaininventory.ErrNotFound),
		errors.Is(err, domainwallet.ErrNotFound),
		errors.Is(err, domainprofile.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domainprofile.ErrAlreadyExists),
		errors.Is(err, domainorder.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, apporder.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		h.log.Error("unhandled_error", observability.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err)
	}
}
