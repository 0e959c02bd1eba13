package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Ressource introuvable",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"Vous n'avez pas les droits nécessaires pour accéder à cette ressource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Une erreur inattendue est survenue",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentification requise",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"Les données fournies sont invalides",
		http.StatusBadRequest,
	)
)

// NotFound builds the 404 returned when an id does not resolve, e.g. "Contrat introuvable".
func NotFound(label string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s introuvable", label), http.StatusNotFound)
}

func ValidationFailed(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func StateConflict(message string) *AppError {
	return New(CodeInvalidState, message, http.StatusBadRequest)
}

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("Le champ %s est obligatoire", field), http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("Le champ %s est invalide", field), http.StatusBadRequest)
}
