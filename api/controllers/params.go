package controllers

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	value, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "field must be a uuid").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
