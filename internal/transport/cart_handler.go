package transport

import (
	"errors"
	"net/http"

	"attar-store/internal/checkout"
	"attar-store/internal/middleware"
	"attar-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest adds a product variant to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

// SetQuantityRequest replaces a line's quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}

// CheckoutRequest carries the delivery details. They are validated by the checkout
// composer so the response can flag each missing field.
type CheckoutRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CartHandler handles HTTP requests for the cart and checkout
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// RegisterRoutes registers the cart routes. All of them need a client id.
func (h *CartHandler) RegisterRoutes(r chi.Router, requireClient, checkoutLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireClient)

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{key}", h.SetQuantity)
			r.Delete("/items/{key}", h.RemoveItem)
		})

		r.With(checkoutLimit).Post("/api/checkout", h.Checkout)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), middleware.GetClientID(r.Context()))
	h.respondCart(w, view, err)
}

// AddItem adds a product variant, accumulating onto an existing line
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.carts.AddItem(r.Context(), middleware.GetClientID(r.Context()), req.ProductID, req.Size, req.Quantity)
	h.respondCart(w, view, err)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	view, err := h.carts.SetQuantity(r.Context(), middleware.GetClientID(r.Context()), chi.URLParam(r, "key"), req.Quantity)
	h.respondCart(w, view, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.RemoveItem(r.Context(), middleware.GetClientID(r.Context()), chi.URLParam(r, "key"))
	h.respondCart(w, view, err)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Clear(r.Context(), middleware.GetClientID(r.Context()))
	h.respondCart(w, view, err)
}

// Checkout composes the order message and returns the chat handoff link.
// The cart is cleared only when the handoff was produced.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	clientID := middleware.GetClientID(r.Context())
	handoff, err := h.carts.Checkout(r.Context(), clientID, checkout.DeliveryDetails{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, "please fill in all delivery details", map[string]interface{}{
				"fields": verr.Fields,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusConflict, "cart is empty")
		default:
			h.logger.Error("Checkout failed", zap.String("client_id", clientID), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to prepare order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, handoff)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, view service.CartView, err error) {
	if err == nil {
		middleware.RespondWithJSON(w, http.StatusOK, view)
		return
	}

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrVariantNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "size not available for this product")
	default:
		h.logger.Error("Cart operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
	}
}
