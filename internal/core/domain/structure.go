package domain

import (
	"fmt"
	"strings"
)

// StructureTemplate is the ordered set of relative sub-paths created under
// every term folder. Entries may contain separators for nested folders.
type StructureTemplate []string

// ParseTemplate builds a template from newline-separated text, trimming
// surrounding whitespace and dropping blank lines.
func ParseTemplate(text string) StructureTemplate {
	return NormalizeTemplate(strings.Split(text, "\n"))
}

// NormalizeTemplate trims every line and drops the blank ones.
func NormalizeTemplate(lines []string) StructureTemplate {
	tmpl := make(StructureTemplate, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			tmpl = append(tmpl, line)
		}
	}
	return tmpl
}

// romanTable is applied greedily, largest value first.
var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman encodes n in subtractive Roman notation. Non-positive values encode
// as the empty string.
func Roman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// GenerateTerms returns count names "{base}_{Roman(i)}" for i = 1..count.
func GenerateTerms(base string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	terms := make([]string, count)
	for i := 1; i <= count; i++ {
		terms[i-1] = fmt.Sprintf("%s_%s", base, Roman(i))
	}
	return terms
}
