package storefront

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yespstudio/storefront/pkg/token"
)

type placeOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type placeOrderRequest struct {
	Items           []placeOrderItem `json:"items"`
	ShippingAddress ShippingAddress  `json:"shipping_address"`
}

// ListOrders returns the authenticated customer's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	claims := token.MustClaimsFromContext(r.Context())
	orders, err := repos.Orders.ListByCustomer(r.Context(), claims.UserID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "order listing failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// GetOrder returns one of the authenticated customer's orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	claims := token.MustClaimsFromContext(r.Context())
	order, err := repos.Orders.FindByID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
			writeMessage(w, http.StatusNotFound, "Order not found")
			return
		}
		h.log.ErrorContext(r.Context(), "order lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if order.CustomerID.Hex() != claims.UserID {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

// PlaceOrder verifies the customer, checks every requested item is
// available with sufficient stock, decrements it, and creates a pending
// order priced from the current catalog.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	claims := token.MustClaimsFromContext(r.Context())

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}
	if req.ShippingAddress.Street == "" || req.ShippingAddress.City == "" || req.ShippingAddress.Zip == "" {
		writeMessage(w, http.StatusBadRequest, "Shipping address is incomplete")
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			writeMessage(w, http.StatusBadRequest, "Item quantity must be positive")
			return
		}
	}

	customerID, err := parseObjectID(claims.UserID)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	if _, err := repos.Customers.FindByID(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.log.ErrorContext(r.Context(), "customer lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var (
		orderItems []OrderItem
		total      float64
		reserved   []placeOrderItem
	)
	release := func() {
		for _, item := range reserved {
			if rerr := repos.Products.AdjustStock(r.Context(), item.ProductID, item.Quantity); rerr != nil {
				h.log.ErrorContext(r.Context(), "stock release failed",
					slog.String("product_id", item.ProductID), slog.Any("error", rerr))
			}
		}
	}

	for _, item := range req.Items {
		product, err := repos.Products.FindByID(r.Context(), item.ProductID)
		if err != nil {
			release()
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
				writeMessage(w, http.StatusBadRequest, "Product not found: "+item.ProductID)
				return
			}
			h.log.ErrorContext(r.Context(), "product lookup failed", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !product.IsActive || product.Status != ProductStatusPublished {
			release()
			writeMessage(w, http.StatusBadRequest, "Product is not available: "+product.Name)
			return
		}
		if err := repos.Products.AdjustStock(r.Context(), item.ProductID, -item.Quantity); err != nil {
			release()
			if errors.Is(err, ErrInsufficientStock) {
				writeMessage(w, http.StatusConflict, "Insufficient stock for "+product.Name)
				return
			}
			h.log.ErrorContext(r.Context(), "stock reservation failed", slog.Any("error", err))
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		reserved = append(reserved, item)
		orderItems = append(orderItems, OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	order := &Order{
		CustomerID:      customerID,
		Items:           orderItems,
		TotalAmount:     total,
		Status:          OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentStatus:   PaymentStatusPending,
	}
	if err := repos.Orders.Create(r.Context(), order); err != nil {
		release()
		h.log.ErrorContext(r.Context(), "order create failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"order": order})
}
