package storefront

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/yespstudio/storefront/pkg/token"
)

// Payment methods a store can accept.
const (
	MethodRazorpay = "razorpay"
	MethodStripe   = "stripe"
	MethodPhonePe  = "phonepe"
	MethodCOD      = "cod"
)

type paymentIntentRequest struct {
	OrderID string `json:"order_id"`
	Method  string `json:"method"`
}

type verifyPaymentRequest struct {
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	TransactionRef string `json:"transaction_ref"`
}

// PaymentGateways reports which gateways the store has configured.
// Only public keys ever leave the server.
func (h *Handler) PaymentGateways(w http.ResponseWriter, r *http.Request) {
	res, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	settings, err := repos.Gateways.FindByStore(r.Context(), res.StoreID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"gateways": []any{}, "cod_enabled": true})
			return
		}
		h.log.ErrorContext(r.Context(), "gateway settings lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	type gatewayInfo struct {
		Name      string `json:"name"`
		PublicKey string `json:"public_key,omitempty"`
	}
	gateways := make([]gatewayInfo, 0, 3)
	if settings.Razorpay.KeyID != "" {
		gateways = append(gateways, gatewayInfo{Name: MethodRazorpay, PublicKey: settings.Razorpay.KeyID})
	}
	if settings.Stripe.PublishableKey != "" {
		gateways = append(gateways, gatewayInfo{Name: MethodStripe, PublicKey: settings.Stripe.PublishableKey})
	}
	if settings.PhonePe.MerchantID != "" {
		gateways = append(gateways, gatewayInfo{Name: MethodPhonePe, PublicKey: settings.PhonePe.MerchantID})
	}
	writeJSON(w, http.StatusOK, map[string]any{"gateways": gateways, "cod_enabled": true})
}

// CreatePaymentIntent opens a payment attempt for one of the
// authenticated customer's pending orders.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	res, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	claims := token.MustClaimsFromContext(r.Context())

	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Method {
	case MethodRazorpay, MethodStripe, MethodPhonePe, MethodCOD:
	default:
		writeMessage(w, http.StatusBadRequest, "Unsupported payment method")
		return
	}
	if req.Method != MethodCOD {
		configured, err := h.gatewayConfigured(r, repos, res.StoreID, req.Method)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !configured {
			writeMessage(w, http.StatusBadRequest, req.Method+" is not configured for this store")
			return
		}
	}

	order, err := repos.Orders.FindByID(r.Context(), req.OrderID)
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
	if order.PaymentStatus != PaymentStatusPending {
		writeMessage(w, http.StatusConflict, "Order is not awaiting payment")
		return
	}

	customer, err := repos.Customers.FindByID(r.Context(), claims.UserID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "customer lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payment := &Payment{
		PaymentID:     "pi_" + uuid.NewString(),
		OrderID:       order.ID,
		StoreID:       res.StoreID,
		TenantID:      res.TenantID,
		CustomerID:    order.CustomerID,
		CustomerEmail: customer.Email,
		Method:        req.Method,
		Amount:        order.TotalAmount,
		Status:        PaymentStatusPending,
	}
	if err := repos.Payments.Create(r.Context(), payment); err != nil {
		h.log.ErrorContext(r.Context(), "payment create failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := repos.Orders.SetPayment(r.Context(), req.OrderID, PaymentStatusPending, PaymentDetails{
		PaymentIntentID: payment.PaymentID,
		Method:          req.Method,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "order payment link failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"payment_id": payment.PaymentID,
		"amount":     payment.Amount,
		"method":     payment.Method,
	})
}

// gatewayConfigured reports whether the store holds credentials for the
// chosen gateway.
func (h *Handler) gatewayConfigured(r *http.Request, repos *Repositories, storeID, method string) (bool, error) {
	settings, err := repos.Gateways.FindByStore(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		h.log.ErrorContext(r.Context(), "gateway settings lookup failed", slog.Any("error", err))
		return false, err
	}
	switch method {
	case MethodRazorpay:
		return settings.Razorpay.KeyID != "" && settings.Razorpay.KeySecret != "", nil
	case MethodStripe:
		return settings.Stripe.SecretKey != "", nil
	case MethodPhonePe:
		return settings.PhonePe.MerchantID != "", nil
	}
	return false, nil
}

// VerifyPayment is the server-to-server settlement endpoint. The
// caller authenticates with the store's secret API key.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}

	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaymentID == "" {
		writeMessage(w, http.StatusBadRequest, "Payment id is required")
		return
	}
	switch req.Status {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
	default:
		writeMessage(w, http.StatusBadRequest, "Unsupported payment status")
		return
	}

	payment, err := repos.Payments.FindByPaymentID(r.Context(), req.PaymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Payment not found")
			return
		}
		h.log.ErrorContext(r.Context(), "payment lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := h.settlePayment(r, repos, payment, req.Status, req.TransactionRef); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Payment "+req.Status)
}

// settlePayment records the gateway outcome on the payment and its
// order in that fixed sequence, so a retry after a partial failure
// converges rather than diverges.
func (h *Handler) settlePayment(r *http.Request, repos *Repositories, payment *Payment, status, transactionRef string) error {
	if err := repos.Payments.SetStatus(r.Context(), payment.PaymentID, status, transactionRef); err != nil {
		h.log.ErrorContext(r.Context(), "payment status update failed",
			slog.String("payment_id", payment.PaymentID), slog.Any("error", err))
		return err
	}
	if err := repos.Orders.SetPayment(r.Context(), payment.OrderID.Hex(), status, PaymentDetails{
		TransactionID:   transactionRef,
		PaymentIntentID: payment.PaymentID,
		Method:          payment.Method,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "order status update failed",
			slog.String("order_id", payment.OrderID.Hex()), slog.Any("error", err))
		return err
	}
	return nil
}
