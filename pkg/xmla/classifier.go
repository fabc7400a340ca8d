package xmla

import "strings"

// FormulaPredicate decides whether a statement comes from a spreadsheet
// formula (CUBEVALUE and friends) and should be answered in formula mode.
type FormulaPredicate func(statement string) bool

var formulaMarkers = []string{"WITH MEMBER", "strtomember", "[Measures].[XL_SD0]"}

// IsFormulaQuery reports whether statement contains every marker of the
// queries Excel generates for cube formulas. Matching is case-sensitive.
func IsFormulaQuery(statement string) bool {
	for _, m := range formulaMarkers {
		if !strings.Contains(statement, m) {
			return false
		}
	}
	return true
}
