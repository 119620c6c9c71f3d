package parsers

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scan splits a statement into whitespace-separated tokens after NFC
// normalization, so composed and decomposed input spell keywords the
// same way.
func Scan(statement string) []string {
	return strings.Fields(norm.NFC.String(statement))
}

func foldEq(tok, keyword string) bool {
	return strings.EqualFold(tok, keyword)
}
