package expenseerrors

import (
	"net/http"

	"go-sirh/internal/shared/apperror"
)

var (
	ErrInvalidLines = apperror.New(
		apperror.CodeInvalidInput,
		"Les lignes de la note de frais doivent être une liste",
		http.StatusBadRequest,
	)
	ErrInvalidLine = apperror.New(
		apperror.CodeInvalidInput,
		"Ligne de frais invalide : catégorie, date (AAAA-MM-JJ) et montant positif requis",
		http.StatusBadRequest,
	)
	ErrEmptyNote = apperror.New(
		apperror.CodeInvalidState,
		"Impossible de soumettre une note de frais sans ligne",
		http.StatusBadRequest,
	)
)
