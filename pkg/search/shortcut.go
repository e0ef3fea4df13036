package search

import (
	"regexp"
	"strings"
)

// Field is one of the fielded factbook lookups the shortcut syntax
// recognizes. Queries like "capital:laos" bypass semantic retrieval
// entirely: the field maps to an extraction regex scoped to the
// country's text block.
type Field int

const (
	FieldCapital Field = iota
	FieldPopulation
	FieldGDP
	FieldInternetCode
	FieldCurrency
	FieldNeighbors
	FieldLanguages
	FieldReligion
	FieldArea
	FieldGovernment
	FieldLocation
	FieldLifeExpectancy
)

// shortcutRe recognizes the "<field>:<entity>" form, case-insensitive
// with arbitrary surrounding whitespace. Only known field names match;
// anything else falls through to semantic retrieval.
var shortcutRe = regexp.MustCompile(
	`(?i)^\s*(` +
		`capital|population|gdp|internet code|currency|` +
		`neighbors?|neighbours?|languages?|language|` +
		`religion|religions|area|government|location|life expectancy` +
		`)\s*:\s*(.+)$`,
)

// canonicalField folds synonyms (neighbour/neighbors, language/
// languages, religion/religions) onto one canonical field.
func canonicalField(raw string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "capital":
		return FieldCapital, true
	case "population":
		return FieldPopulation, true
	case "gdp":
		return FieldGDP, true
	case "internet code":
		return FieldInternetCode, true
	case "currency":
		return FieldCurrency, true
	case "neighbor", "neighbors", "neighbour", "neighbours":
		return FieldNeighbors, true
	case "language", "languages":
		return FieldLanguages, true
	case "religion", "religions":
		return FieldReligion, true
	case "area":
		return FieldArea, true
	case "government":
		return FieldGovernment, true
	case "location":
		return FieldLocation, true
	case "life expectancy":
		return FieldLifeExpectancy, true
	}
	return 0, false
}

// Pattern builds the extraction regex for this field and entity. The
// pattern anchors at the start of the entity's line, then scans lazily
// forward (dot matches newline) to the field's label and captures the
// rest of that line. The entity is quoted so free text is never
// interpreted as regex syntax.
func (f Field) Pattern(entity string) string {
	ent := regexp.QuoteMeta(strings.TrimSpace(entity))
	prefix := `(?mis)^` + ent + `\b.*?`

	switch f {
	case FieldCapital:
		return prefix + `(?:Capital[^:\n]*:\s*)([^\n]+)`
	case FieldPopulation:
		return prefix + `(?:Population[^:\n]*:\s*)([^\n]+)`
	case FieldGDP:
		// Captures a short trailing multi-line span instead of a single
		// labeled line; GDP figures span several labeled sublines.
		return prefix + `GDP.*?(?:\n.*){0,3}`
	case FieldInternetCode:
		return prefix + `Internet country code:\s*([^\n]+)`
	case FieldCurrency:
		return prefix + `Currency[^:\n]*:\s*([^\n]+)`
	case FieldNeighbors:
		return prefix + `border countries:\s*([^\n]+)`
	case FieldLanguages:
		return prefix + `Languages?:\s*([^\n]+)`
	case FieldReligion:
		return prefix + `Religions?:\s*([^\n]+)`
	case FieldArea:
		return prefix + `Area:\s*([^\n]+)`
	case FieldGovernment:
		return prefix + `Government type:\s*([^\n]+)`
	case FieldLocation:
		return prefix + `Location:\s*([^\n]+)`
	case FieldLifeExpectancy:
		return prefix + `Life expectancy at birth:\s*([^\n]+)`
	}
	return ""
}

// Resolve pattern-matches a "<field>:<entity>" query into an
// extraction regex. Returns ok=false when the query is not in shortcut
// form or names an unrecognized field; the caller then falls through to
// semantic retrieval.
func Resolve(query string) (string, bool) {
	m := shortcutRe.FindStringSubmatch(strings.TrimSpace(query))
	if m == nil {
		return "", false
	}

	field, ok := canonicalField(m[1])
	if !ok {
		return "", false
	}

	return field.Pattern(m[2]), true
}
