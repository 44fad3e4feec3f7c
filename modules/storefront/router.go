package storefront

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yespstudio/storefront/pkg/apikey"
	"github.com/yespstudio/storefront/pkg/tenant"
	"github.com/yespstudio/storefront/pkg/token"
)

// Router assembles the storefront HTTP surface. Every tenant-scoped
// route passes through the tenant middleware before any handler runs.
func Router(h *Handler, resolver *tenant.Resolver, dir apikey.Directory, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
	})

	bindTenant := tenant.Middleware(resolver, tenant.WithLogger(log))

	r.Route("/store/{storeID}", func(r chi.Router) {
		r.With(bindTenant).Get("/", h.StoreInfo)

		r.Route("/api/storefront", func(r chi.Router) {
			// The key check runs before tenant binding so a caller
			// with a wrong key never dials the tenant database.
			r.Group(func(r chi.Router) {
				r.Use(apikey.Middleware(dir, apikey.WithLogger(log)))
				r.Use(bindTenant)
				r.Post("/payment/verify", h.VerifyPayment)
			})

			r.Group(func(r chi.Router) {
				r.Use(bindTenant)

				r.Post("/register", h.Register)
				r.Post("/login", h.Login)

				r.Get("/products", h.ListProducts)
				r.Get("/products/search", h.SearchProducts)
				r.Get("/products/{slug}", h.ProductDetails)
				r.Get("/categories", h.ListCategories)
				r.Get("/offers", h.ListOffers)
				r.Get("/payment-gateways", h.PaymentGateways)

				r.Group(func(r chi.Router) {
					r.Use(token.RequireCustomer(h.tokens))
					r.Get("/orders", h.ListOrders)
					r.Post("/orders", h.PlaceOrder)
					r.Get("/orders/{orderID}", h.GetOrder)
					r.Post("/payment-intents", h.CreatePaymentIntent)
				})
			})
		})
	})

	r.Route("/webhooks/{gatewayName}/{storeID}", func(r chi.Router) {
		r.Use(bindTenant)
		r.Post("/", h.GatewayWebhook)
	})

	return r
}

// StoreInfo returns the public directory record of the bound store.
func (h *Handler) StoreInfo(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolution(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"store": res.Record})
}
