package attendanceerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date invalide, format attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Heure invalide, format attendu HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"L'heure de sortie doit être postérieure à l'heure d'entrée",
		http.StatusBadRequest,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Un pointage existe déjà pour cet employé à cette date",
		http.StatusConflict,
	)
	ErrClockInNotFound = apperror.New(
		apperror.CodeNotFound,
		"Aucun pointage d'entrée trouvé pour aujourd'hui",
		http.StatusNotFound,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"La sortie a déjà été pointée pour aujourd'hui",
		http.StatusBadRequest,
	)
)
