// Package textnorm normaliza texto para búsquedas y claves: sin acentos y sin
// distinción de mayúsculas ("São Paulo" y "sao paulo" producen la misma clave).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin diacríticos y con espacios colapsados.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// Contains informa si needle aparece en haystack ignorando mayúsculas y acentos.
// Un needle vacío siempre coincide.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// Slug convierte un nombre en un identificador estable: "Negociação" -> "negociacao",
// "Primeira Reunião" -> "primeira-reuniao".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range Fold(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
