package avance

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Collection = "avances"

	StatusEnAttente = "En_attente"
	StatusValide    = "Valide"
	StatusRefuse    = "Refuse"
)

var legacyStatuses = map[string]string{
	"EN_ATTENTE": StatusEnAttente,
	"ATTENTE":    StatusEnAttente,
	"BROUILLON":  StatusEnAttente,
	"VALIDE":     StatusValide,
	"VALIDEE":    StatusValide,
	"REFUSE":     StatusRefuse,
	"REFUSEE":    StatusRefuse,
}

// NormalizeStatus maps every known spelling of an advance status ("VALIDÉ", "en attente", ...) to its canonical form.
// Unknown values are returned unchanged.
func NormalizeStatus(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	key := strings.ToUpper(strings.ReplaceAll(folded, " ", "_"))
	if canonical, ok := legacyStatuses[key]; ok {
		return canonical
	}
	return s
}
