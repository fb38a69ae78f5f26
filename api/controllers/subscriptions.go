package controllers

import (
	"net/http"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/api/validators"
	"github.com/rileysalas/clientdesk-backend/internal/subscriptions"
	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type CreateSubscriptionBody struct {
	CustomerID       string  `json:"customerId" validate:"required,uuid"`
	Description      *string `json:"description" validate:"omitempty,max=2000"`
	InitialAmount    *string `json:"initialAmount"`
	InitialStartDate *string `json:"initialStartDate" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateSubscriptionBody struct {
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type AmountBody struct {
	Amount    string  `json:"amount" validate:"required"`
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type CalculateMonthlyBody struct {
	FromYear  int `json:"fromYear" validate:"required,gte=2000,lte=2200"`
	FromMonth int `json:"fromMonth" validate:"required,gte=1,lte=12"`
	ToYear    int `json:"toYear" validate:"required,gte=2000,lte=2200"`
	ToMonth   int `json:"toMonth" validate:"required,gte=1,lte=12"`
}

func ListSubscriptions(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"subscriptions": views})
	}
}

func CreateSubscription(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateSubscriptionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := parseUUIDField(body.CustomerID, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := subscriptions.CreateInput{
			CustomerID:  customerID,
			Description: body.Description,
		}
		if body.InitialAmount != nil {
			amount, err := parseAmount(*body.InitialAmount)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.InitialAmount = &amount
		}
		if body.InitialStartDate != nil {
			start, err := dates.Parse(*body.InitialStartDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start date"))
				return
			}
			input.InitialStartDate = &start
		}

		view, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func SubscriptionDetail(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithSubscriptionID(r.Context(), id.String())
		view, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func UpdateSubscription(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body UpdateSubscriptionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Update(r.Context(), id, subscriptions.UpdateInput{Description: body.Description}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ListSubscriptionAmounts(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amounts, err := svc.ListAmounts(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"amounts": amounts})
	}
}

func parseAmountBody(r *http.Request) (subscriptions.AmountInput, error) {
	var body AmountBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return subscriptions.AmountInput{}, err
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return subscriptions.AmountInput{}, err
	}
	start, err := dates.Parse(body.StartDate)
	if err != nil {
		return subscriptions.AmountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start date")
	}
	input := subscriptions.AmountInput{Amount: amount, StartDate: start}
	if body.EndDate != nil {
		end, err := dates.Parse(*body.EndDate)
		if err != nil {
			return subscriptions.AmountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end date")
		}
		input.EndDate = &end
	}
	return input, nil
}

func AddSubscriptionAmount(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := parseAmountBody(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddAmount(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func UpdateSubscriptionAmount(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amountID, err := validators.UUIDParam(r, "amountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := parseAmountBody(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpdateAmount(r.Context(), id, amountID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"updated": true})
	}
}

func DeleteSubscriptionAmount(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amountID, err := validators.UUIDParam(r, "amountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteAmount(r.Context(), id, amountID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func CalculateMonthly(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CalculateMonthlyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CalculateMonthly(r.Context(), subscriptions.MonthRange{
			FromYear:  body.FromYear,
			FromMonth: body.FromMonth,
			ToYear:    body.ToYear,
			ToMonth:   body.ToMonth,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
