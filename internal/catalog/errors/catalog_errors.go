package catalogerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrPayrollSettingsMissing = apperror.New(
		apperror.CodeInternalError,
		"Paramètres de paie introuvables",
		http.StatusInternalServerError,
	)
	ErrUnknownCurrency = apperror.New(
		apperror.CodeInvalidInput,
		"Devise inconnue",
		http.StatusBadRequest,
	)
)
