package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rileysalas/clientdesk-backend/api/controllers"
	"github.com/rileysalas/clientdesk-backend/api/middleware"
	"github.com/rileysalas/clientdesk-backend/internal/customers"
	"github.com/rileysalas/clientdesk-backend/internal/dashboard"
	"github.com/rileysalas/clientdesk-backend/internal/obligations"
	"github.com/rileysalas/clientdesk-backend/internal/orders"
	"github.com/rileysalas/clientdesk-backend/internal/subscriptions"
	"github.com/rileysalas/clientdesk-backend/internal/templates"
	"github.com/rileysalas/clientdesk-backend/pkg/config"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPing        func(ctx context.Context) error
	Customers     customers.Service
	Orders        orders.Service
	Subscriptions subscriptions.Service
	Obligations   obligations.Service
	Dashboard     dashboard.Service
	Templates     templates.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DBPing))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(params.Customers, logg))
			r.Post("/", controllers.CreateCustomer(params.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(params.Customers, logg))
			r.Put("/{customerId}", controllers.UpdateCustomer(params.Customers, logg))
			r.Delete("/{customerId}", controllers.DeleteCustomer(params.Customers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(params.Orders, logg))
			r.Post("/", controllers.CreateOrder(params.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(params.Orders, logg))
			r.Put("/{orderId}", controllers.UpdateOrder(params.Orders, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(params.Orders, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", controllers.ListSubscriptions(params.Subscriptions, logg))
			r.Post("/", controllers.CreateSubscription(params.Subscriptions, logg))
			r.Post("/calculate-monthly", controllers.CalculateMonthly(params.Subscriptions, logg))
			r.Get("/{subscriptionId}", controllers.SubscriptionDetail(params.Subscriptions, logg))
			r.Put("/{subscriptionId}", controllers.UpdateSubscription(params.Subscriptions, logg))
			r.Route("/{subscriptionId}/amounts", func(r chi.Router) {
				r.Get("/", controllers.ListSubscriptionAmounts(params.Subscriptions, logg))
				r.Post("/", controllers.AddSubscriptionAmount(params.Subscriptions, logg))
				r.Put("/{amountId}", controllers.UpdateSubscriptionAmount(params.Subscriptions, logg))
				r.Delete("/{amountId}", controllers.DeleteSubscriptionAmount(params.Subscriptions, logg))
			})
		})

		r.Route("/unpaid", func(r chi.Router) {
			r.Get("/", controllers.ListUnpaid(params.Obligations, logg))
			r.Put("/update", controllers.UpdateUnpaid(params.Obligations, logg))
		})

		r.Get("/dashboard/metrics", controllers.DashboardMetrics(params.Dashboard, logg))

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", controllers.ListTemplates(params.Templates, logg))
			r.Post("/", controllers.CreateTemplate(params.Templates, logg))
			r.Get("/{templateId}", controllers.TemplateDetail(params.Templates, logg))
			r.Put("/{templateId}", controllers.UpdateTemplate(params.Templates, logg))
			r.Delete("/{templateId}", controllers.DeleteTemplate(params.Templates, logg))
		})
	})

	return r
}
