package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/api/validators"
	"github.com/rileysalas/clientdesk-backend/internal/orders"
	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
	"github.com/rileysalas/clientdesk-backend/pkg/pagination"
)

type CreateOrderBody struct {
	CustomerID  string  `json:"customerId" validate:"required,uuid"`
	Amount      string  `json:"amount" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SalesAt     string  `json:"salesAt" validate:"required,datetime=2006-01-02"`
	IsPaid      bool    `json:"isPaid"`
}

type UpdateOrderBody struct {
	Amount      *string `json:"amount"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SalesAt     *string `json:"salesAt" validate:"omitempty,datetime=2006-01-02"`
	IsPaid      *bool   `json:"isPaid"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number")
	}
	return amount, nil
}

func buildOrderFilters(r *http.Request) (orders.Filters, error) {
	filters := orders.Filters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	paid, err := validators.ParseQueryBool(r, "paid")
	if err != nil {
		return filters, err
	}
	filters.Paid = paid

	from, err := validators.ParseQueryDate(r, "dateFrom")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := validators.ParseQueryDate(r, "dateTo")
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	customerID, err := validators.ParseQueryUUID(r, "customerId")
	if err != nil {
		return filters, err
	}
	filters.CustomerID = customerID
	return filters, nil
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateOrderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := parseAmount(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		salesAt, err := dates.Parse(body.SalesAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sales date"))
			return
		}
		customerID, err := parseUUIDField(body.CustomerID, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), orders.CreateInput{
			CustomerID:  customerID,
			Amount:      amount,
			Description: body.Description,
			SalesAt:     salesAt,
			IsPaid:      body.IsPaid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body UpdateOrderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateInput{
			Description: body.Description,
			IsPaid:      body.IsPaid,
		}
		if body.Amount != nil {
			amount, err := parseAmount(*body.Amount)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Amount = &amount
		}
		if body.SalesAt != nil {
			salesAt, err := dates.Parse(*body.SalesAt)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sales date"))
				return
			}
			input.SalesAt = &salesAt
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
