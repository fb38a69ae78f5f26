package controllers

import (
	"net/http"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/api/validators"
	"github.com/rileysalas/clientdesk-backend/internal/obligations"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type UnpaidUpdateItemBody struct {
	ID             string  `json:"id" validate:"required,uuid"`
	Type           string  `json:"type" validate:"required,oneof=onetime subscription"`
	SubscriptionID *string `json:"subscriptionId" validate:"omitempty,uuid"`
	Year           *int    `json:"year" validate:"omitempty,gte=2000,lte=2200"`
	Month          *int    `json:"month" validate:"omitempty,gte=1,lte=12"`
}

type UnpaidUpdateBody struct {
	Items []UnpaidUpdateItemBody `json:"items" validate:"required,min=1,dive"`
}

func ListUnpaid(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func UpdateUnpaid(svc obligations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body UnpaidUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]obligations.UpdateItem, 0, len(body.Items))
		for _, raw := range body.Items {
			item := obligations.UpdateItem{Type: raw.Type, Year: raw.Year, Month: raw.Month}
			id, err := parseUUIDField(raw.ID, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item.ID = id
			if raw.SubscriptionID != nil {
				subID, err := parseUUIDField(*raw.SubscriptionID, "subscriptionId")
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				item.SubscriptionID = &subID
			}
			// missing correlation fields surface as that item's failure,
			// not as a batch-level rejection
			items = append(items, item)
		}

		result, err := svc.BulkMarkPaid(r.Context(), items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
