package avanceerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidMontant = apperror.New(
		apperror.CodeInvalidInput,
		"Le montant de l'avance doit être strictement positif",
		http.StatusBadRequest,
	)
	ErrInvalidDateDemande = apperror.New(
		apperror.CodeInvalidInput,
		"Date de demande invalide, format attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrYearlyCapReached = apperror.New(
		apperror.CodeInvalidInput,
		"Nombre maximum d'avances atteint pour cette année",
		http.StatusBadRequest,
	)
	ErrAboveCeiling = apperror.New(
		apperror.CodeInvalidInput,
		"Le montant dépasse le plafond autorisé pour cet employé",
		http.StatusBadRequest,
	)
)
