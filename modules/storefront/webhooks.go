package storefront

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type webhookEvent struct {
	PaymentID      string `json:"payment_id"`
	Event          string `json:"event"`
	TransactionRef string `json:"transaction_ref"`
}

// webhookStatus maps a gateway event name onto an internal payment
// status. Unrecognized events are acknowledged and dropped.
func webhookStatus(event string) (string, bool) {
	switch event {
	case "payment.captured", "payment_intent.succeeded", "PAYMENT_SUCCESS", "paid":
		return PaymentStatusPaid, true
	case "payment.failed", "payment_intent.payment_failed", "PAYMENT_ERROR", "failed":
		return PaymentStatusFailed, true
	case "refund.processed", "charge.refunded", "PAYMENT_REFUNDED", "refunded":
		return PaymentStatusRefunded, true
	default:
		return "", false
	}
}

// GatewayWebhook ingests asynchronous gateway notifications. It always
// answers 200 for well-formed events it chooses to ignore, so the
// gateway does not retry them forever.
func (h *Handler) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	_, repos, ok := h.tenantRepos(w, r)
	if !ok {
		return
	}
	gateway := chi.URLParam(r, "gatewayName")

	var ev webhookEvent
	if err := decodeJSON(r, &ev); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	if ev.PaymentID == "" {
		writeMessage(w, http.StatusBadRequest, "Payment id is required")
		return
	}

	status, known := webhookStatus(ev.Event)
	if !known {
		h.log.InfoContext(r.Context(), "ignoring webhook event",
			slog.String("gateway", gateway), slog.String("event", ev.Event))
		writeMessage(w, http.StatusOK, "Event ignored")
		return
	}

	payment, err := repos.Payments.FindByPaymentID(r.Context(), ev.PaymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Payment not found")
			return
		}
		h.log.ErrorContext(r.Context(), "payment lookup failed", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if payment.Status == status {
		writeMessage(w, http.StatusOK, "Already processed")
		return
	}
	if err := h.settlePayment(r, repos, payment, status, ev.TransactionRef); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.log.InfoContext(r.Context(), "webhook processed",
		slog.String("gateway", gateway),
		slog.String("payment_id", ev.PaymentID),
		slog.String("status", status))
	writeMessage(w, http.StatusOK, "Webhook processed")
}
