package accidenterrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidDateAccident = apperror.New(apperror.CodeInvalidInput, "Date d'accident invalide (format AAAA-MM-JJ)", http.StatusBadRequest)
	ErrInvalidHeure        = apperror.New(apperror.CodeInvalidInput, "Heure d'accident invalide (format HH:MM)", http.StatusBadRequest)
	ErrFutureAccident      = apperror.New(apperror.CodeInvalidInput, "La date d'accident ne peut pas être dans le futur", http.StatusBadRequest)
	ErrInvalidJoursArret   = apperror.New(apperror.CodeInvalidInput, "Le nombre de jours d'arrêt doit être positif", http.StatusBadRequest)
	ErrInvalidDecision     = apperror.New(apperror.CodeInvalidInput, "La décision doit être Accepté ou Refusé", http.StatusBadRequest)
)
