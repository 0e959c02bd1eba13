package employeeerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.NotFound("Employé")

	ErrMatriculeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Un employé avec ce matricule existe déjà",
		http.StatusConflict,
	)
	ErrCINAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Un employé avec ce CIN existe déjà",
		http.StatusConflict,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Format d'email invalide",
		http.StatusBadRequest,
	)
	ErrInvalidPhone = apperror.New(
		apperror.CodeInvalidInput,
		"Numéro de téléphone invalide",
		http.StatusBadRequest,
	)
	ErrInvalidDateEmbauche = apperror.New(
		apperror.CodeInvalidInput,
		"Date d'embauche invalide, format attendu AAAA-MM-JJ",
		http.StatusBadRequest,
	)
	ErrInvalidSalaire = apperror.New(
		apperror.CodeInvalidInput,
		"Le salaire de base doit être un nombre positif",
		http.StatusBadRequest,
	)
)
