package payrollerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrPeriodNotFound = apperror.NotFound("Période de paie")

	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Période invalide, le mois doit être compris entre 1 et 12",
		http.StatusBadRequest,
	)
	ErrPeriodExists = apperror.New(
		apperror.CodeConflict,
		"Une période de paie existe déjà pour ce mois",
		http.StatusConflict,
	)
	ErrPeriodClosed = apperror.New(
		apperror.CodeInvalidState,
		"La période de paie est clôturée",
		http.StatusBadRequest,
	)
	ErrPeriodNotReady = apperror.New(
		apperror.CodeInvalidState,
		"Tous les bulletins de la période doivent être validés ou payés avant la clôture",
		http.StatusBadRequest,
	)
	ErrPeriodHasPayslips = apperror.New(
		apperror.CodeInvalidState,
		"Impossible de supprimer une période contenant des bulletins",
		http.StatusBadRequest,
	)
	ErrPayslipExists = apperror.New(
		apperror.CodeConflict,
		"Un bulletin existe déjà pour cet employé sur cette période",
		http.StatusConflict,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"Les éléments de salaire ne peuvent pas être négatifs",
		http.StatusBadRequest,
	)
	ErrAsyncUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"La génération asynchrone n'est pas disponible",
		http.StatusServiceUnavailable,
	)
)
