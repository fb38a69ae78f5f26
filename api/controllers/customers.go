package controllers

import (
	"net/http"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/api/validators"
	"github.com/rileysalas/clientdesk-backend/internal/customers"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type CustomerBody struct {
	Name    string  `json:"name" validate:"required,min=1,max=120"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateCustomerBody struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
}

type customerView struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
	CreatedAt  string  `json:"createdAt"`
}

func buildCustomerView(customer *models.Customer) customerView {
	return customerView{
		CustomerID: customer.ID.String(),
		Name:       customer.Name,
		Email:      customer.Email,
		Phone:      customer.Phone,
		Address:    customer.Address,
		Notes:      customer.Notes,
		CreatedAt:  customer.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func ListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]customerView, 0, len(list))
		for i := range list {
			views = append(views, buildCustomerView(&list[i]))
		}
		responses.WriteSuccess(w, map[string]any{"customers": views})
	}
}

func CreateCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CustomerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Create(r.Context(), customers.Input{
			Name:    validators.SanitizeString(body.Name, 120),
			Email:   body.Email,
			Phone:   body.Phone,
			Address: body.Address,
			Notes:   body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buildCustomerView(customer))
	}
}

func CustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithCustomerID(r.Context(), id.String())
		customer, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildCustomerView(customer))
	}
}

func UpdateCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body UpdateCustomerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := customers.Input{
			Email:   body.Email,
			Phone:   body.Phone,
			Address: body.Address,
			Notes:   body.Notes,
		}
		if body.Name != nil {
			input.Name = validators.SanitizeString(*body.Name, 120)
		}
		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildCustomerView(customer))
	}
}

func DeleteCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithCustomerID(r.Context(), id.String())
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
