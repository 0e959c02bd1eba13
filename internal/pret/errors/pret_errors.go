package preterrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrPretNotFound = apperror.NotFound("Prêt")

	ErrInvalidMontant = apperror.New(
		apperror.CodeInvalidInput,
		"Le montant du prêt doit être strictement positif",
		http.StatusBadRequest,
	)
	ErrInvalidDuree = apperror.New(
		apperror.CodeInvalidInput,
		"La durée doit être un nombre entier de mois strictement positif",
		http.StatusBadRequest,
	)
	ErrInvalidTaux = apperror.New(
		apperror.CodeInvalidInput,
		"Le taux annuel ne peut pas être négatif",
		http.StatusBadRequest,
	)
	ErrInvalidDateDebut = apperror.New(
		apperror.CodeInvalidInput,
		"Date de début invalide, format attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrLoanInProgress = apperror.New(
		apperror.CodeConflict,
		"L'employé a déjà un prêt en attente ou en cours",
		http.StatusConflict,
	)
)
