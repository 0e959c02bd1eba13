package contracterrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Format de date invalide, attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"La date de fin doit être postérieure à la date de début",
		http.StatusBadRequest,
	)
	ErrInvalidSalaire = apperror.New(
		apperror.CodeInvalidInput,
		"Le salaire doit être un montant positif",
		http.StatusBadRequest,
	)
)
