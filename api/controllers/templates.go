package controllers

import (
	"net/http"

	"github.com/rileysalas/clientdesk-backend/api/responses"
	"github.com/rileysalas/clientdesk-backend/api/validators"
	"github.com/rileysalas/clientdesk-backend/internal/templates"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	"github.com/rileysalas/clientdesk-backend/pkg/logger"
)

type TemplateBody struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Amount      string  `json:"amount" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type templateView struct {
	TemplateID  string  `json:"templateId"`
	Name        string  `json:"name"`
	Amount      string  `json:"amount"`
	Description *string `json:"description"`
}

func buildTemplateView(template *models.OrderTemplate) templateView {
	return templateView{
		TemplateID:  template.ID.String(),
		Name:        template.Name,
		Amount:      template.Amount.StringFixed(2),
		Description: template.Description,
	}
}

func decodeTemplateBody(r *http.Request) (templates.Input, error) {
	var body TemplateBody
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return templates.Input{}, err
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return templates.Input{}, err
	}
	return templates.Input{
		Name:        validators.SanitizeString(body.Name, 120),
		Amount:      amount,
		Description: body.Description,
	}, nil
}

func ListTemplates(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]templateView, 0, len(list))
		for i := range list {
			views = append(views, buildTemplateView(&list[i]))
		}
		responses.WriteSuccess(w, map[string]any{"templates": views})
	}
}

func CreateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeTemplateBody(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		template, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buildTemplateView(template))
	}
}

func TemplateDetail(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		template, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildTemplateView(template))
	}
}

func UpdateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := decodeTemplateBody(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		template, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildTemplateView(template))
	}
}

func DeleteTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "templateId")
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
