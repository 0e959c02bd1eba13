package absenceerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Format de date invalide, format attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"La date de début doit être antérieure ou égale à la date de fin",
		http.StatusBadRequest,
	)
	ErrAbsenceOverlap = apperror.New(
		apperror.CodeConflict,
		"Une absence existe déjà sur cette période pour cet employé",
		http.StatusConflict,
	)
)
