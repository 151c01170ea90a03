// Package normalizers provides field normalization functions for gym matching
package normalizers

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("naddress", Address)
	Register("nphone", Phone)
	Register("nname", CleanName)
	Register("ndomain", Domain)
	Register("nzip", ZipCode)
	Register("digits_only", DigitsOnly)
	Register("remove_whitespace", RemoveWhitespace)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// replacement is an ordered substitution applied during address normalization.
// Order matters: multi-word landmark names run before the generic street-type
// contractions that would otherwise rewrite them first.
type replacement struct {
	from, to string
}

var addressReplacements = []replacement{
	// Landmark names
	{"avenue of the americas", "6th ave"},
	{"park avenue", "park ave"},
	{"madison avenue", "madison ave"},
	{"wall street", "wall st"},

	// Street types. Punctuation is stripped before this table runs, so
	// dotted forms like "st." are already bare.
	{" street", " st"},
	{" avenue", " ave"},
	{" boulevard", " blvd"},
	{" road", " rd"},
	{" drive", " dr"},
	{" lane", " ln"},
	{" place", " pl"},
	{" court", " ct"},
	{" circle", " cir"},
	{" parkway", " pkwy"},
	{" highway", " hwy"},
	{" freeway", " fwy"},

	// Building types
	{" suite", " ste"},
	{" apartment", " apt"},
	{" floor", " fl"},
	{" building", " bldg"},
	{" room", " rm"},
	{" #", " unit "},

	// Ordinal numbers
	{"first", "1st"}, {"second", "2nd"}, {"third", "3rd"},
	{"fourth", "4th"}, {"fifth", "5th"}, {"sixth", "6th"},
	{"seventh", "7th"}, {"eighth", "8th"}, {"ninth", "9th"},
	{"tenth", "10th"}, {"eleventh", "11th"}, {"twelfth", "12th"},

	// Directions
	{" west ", " w "}, {" east ", " e "}, {" north ", " n "}, {" south ", " s "},
	{" northwest ", " nw "}, {" northeast ", " ne "},
	{" southwest ", " sw "}, {" southeast ", " se "},

	// NYC boroughs
	{"new york", "ny"}, {"manhattan", "ny"},
	{"brooklyn", "ny"}, {"queens", "ny"}, {"bronx", "ny"},
	{"staten island", "ny"},

	// Common variations
	{"&", "and"},
}

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	placeholderValues = map[string]bool{"": true, "n/a": true, "none": true, "null": true}
)

// Address canonicalizes a street address for comparison: lowercase,
// collapsed whitespace, abbreviated street/building/direction terms,
// numeric ordinals, and punctuation stripped except digit-adjacent
// periods and commas. Idempotent.
func Address(s string) string {
	if placeholderValues[strings.ToLower(strings.TrimSpace(s))] {
		return ""
	}

	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")

	// Drop commas and periods unless the next character is a digit, so
	// decimals like "3.5" survive. Punctuation goes first: the space-
	// bounded directional contractions below must see "west, broadway"
	// as "west broadway", otherwise a second pass would keep finding
	// new matches.
	var b strings.Builder
	runes := []rune(normalized)
	for i, r := range runes {
		if r == ',' || r == '.' {
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(r)
	}
	normalized = strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))

	for _, r := range addressReplacements {
		normalized = strings.ReplaceAll(normalized, r.from, r.to)
	}

	// Directional contractions above need surrounding spaces; handle a
	// trailing direction word separately.
	for _, d := range []replacement{
		{" west", " w"}, {" east", " e"}, {" north", " n"}, {" south", " s"},
	} {
		if strings.HasSuffix(normalized, d.from) {
			normalized = strings.TrimSuffix(normalized, d.from) + d.to
		}
	}

	// The unit replacement can leave a double space behind.
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// Phone reduces a phone number to its digits. An 11-digit number with a
// leading 1 drops the country code; anything that is not 10 digits after
// that is returned as the raw digit string.
func Phone(s string) string {
	if placeholderValues[strings.ToLower(strings.TrimSpace(s))] {
		return ""
	}

	digits := DigitsOnly(s)
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits[1:]
	}
	return digits
}

// entitySuffixes and genericSuffixes are stripped from the end of a gym
// name in a single ordered pass. Each suffix is removed at most once, so
// "equinox fitness center llc" keeps its "fitness" after losing "llc"
// and "center".
var entitySuffixes = []string{
	" llc", " inc", " corp", " ltd", " co", " company", " enterprises", " group",
}

var genericSuffixes = []string{
	" gym", " fitness", " center", " club", " studio", " training", " academy",
}

var locationSuffixRes = []*regexp.Regexp{
	regexp.MustCompile(`\s+\w+\s+location$`),
	regexp.MustCompile(`\s+\w+\s+branch$`),
	regexp.MustCompile(`\s+downtown$`),
	regexp.MustCompile(`\s+uptown$`),
	regexp.MustCompile(`\s+midtown$`),
	regexp.MustCompile(`\s+east\s+side$`),
	regexp.MustCompile(`\s+west\s+side$`),
	regexp.MustCompile(`\s+-\s+[\w\s]+$`),
}

// CleanName lowercases a business name and strips legal-entity suffixes,
// generic gym-type suffixes, and trailing location qualifiers.
func CleanName(s string) string {
	if s == "" {
		return ""
	}

	cleaned := strings.ToLower(strings.TrimSpace(s))

	for _, re := range locationSuffixRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	for _, suffix := range entitySuffixes {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	for _, suffix := range genericSuffixes {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}

	return strings.TrimSpace(cleaned)
}

// Domain extracts the lowercased host from a URL, without any leading
// "www.". Returns "" when the URL cannot be parsed.
func Domain(s string) string {
	if placeholderValues[strings.ToLower(strings.TrimSpace(s))] {
		return ""
	}

	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

// ZipCode extracts a 5-digit ZIP from free text, or "" if none is found.
func ZipCode(s string) string {
	digits := zipRe.FindString(s)
	return digits
}

var zipRe = regexp.MustCompile(`\b\d{5}\b`)
