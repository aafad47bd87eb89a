package recipe

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\s*\(.*$`)
	nonWordPattern       = regexp.MustCompile(`[^\p{L}\p{N}\s-]+`)
	separatorPattern     = regexp.MustCompile(`[\s-]+`)
)

// NormalizeID maps an ingredient name to its canonical id:
// "Garlic (minced)" becomes "garlic", "Extra-Virgin Olive Oil!" becomes
// "extra-virgin-olive-oil". Hyphens count as whitespace so the result is a
// fixed point. The empty string maps to itself.
func NormalizeID(name string) string {
	id := strings.ToLower(name)
	id = parentheticalPattern.ReplaceAllString(id, "")
	id = nonWordPattern.ReplaceAllString(id, "")
	id = separatorPattern.ReplaceAllString(id, " ")
	return strings.ReplaceAll(strings.TrimSpace(id), " ", "-")
}
