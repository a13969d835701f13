// Package naming holds the text transforms that turn operation ids, path
// templates, tags and event names into identifiers and display names. Every
// function is a pure, deterministic transform of its input.
package naming

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator joins the words of every generated identifier.
const Separator = "_"

// FallbackCategory is used when an operation has neither tags nor a usable
// path segment.
const FallbackCategory = "general"

var (
	repeatedSeparators = regexp.MustCompile(`_{2,}`)
	nonIdentifier      = regexp.MustCompile(`[^a-z0-9]+`)
	pathParameter      = regexp.MustCompile(`\{[^}]*\}`)
	versionSegment     = regexp.MustCompile(`^v[0-9]+(\.[0-9]+)?$`)
)

// FromOperationID converts a declared operation id into an action id by
// inserting a separator before every capital letter, lower-casing, stripping a
// leading separator and collapsing repeated separators:
//
//	listWidgets  -> list_widgets
//	GetAllItems  -> get_all_items
//	create_Order -> create_order
func FromOperationID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsUpper(r) {
			b.WriteString(Separator)
		}
		b.WriteRune(unicode.ToLower(r))
	}
	s := strings.TrimPrefix(b.String(), Separator)
	return repeatedSeparators.ReplaceAllString(s, Separator)
}

// FromVerbAndPath derives an action id for an operation without a declared
// id: `get /v1/widgets/{id}` becomes `get_widgets`.
func FromVerbAndPath(verb, path string) string {
	slug := PathSlug(path)
	if slug == "" {
		return strings.ToLower(verb)
	}
	return strings.ToLower(verb) + Separator + slug
}

// PathSlug drops a leading version segment and every path parameter, then
// joins what is left with separators.
func PathSlug(path string) string {
	return Identifier(strings.Join(Segments(path), Separator))
}

// Segments returns the non-empty segments of a path template after removing a
// leading version segment (v1, v2.1) and path parameters.
func Segments(path string) []string {
	var segments []string
	for i, segment := range strings.Split(path, "/") {
		segment = pathParameter.ReplaceAllString(segment, "")
		if segment == "" {
			continue
		}
		if len(segments) == 0 && versionSegment.MatchString(strings.ToLower(segment)) && i <= 1 {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// Category normalizes a tag into a category: lower-cased with spaces replaced
// by separators.
func Category(tag string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), " ", Separator)
}

// Identifier lower-cases s and reduces every run of characters that isn't a
// letter or digit to a single separator, trimming separators at either end.
//
//	widget.created -> widget_created
//	Line-Items     -> line_items
func Identifier(s string) string {
	s = nonIdentifier.ReplaceAllString(strings.ToLower(s), Separator)
	return strings.Trim(s, Separator)
}

// Title turns an identifier-ish string into words with initial capitals:
// `line_items` and `widget.created` become `Line Items` and `Widget Created`.
func Title(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r)
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Words replaces separators with spaces, for use in generated sentences.
func Words(s string) string {
	return strings.ReplaceAll(s, Separator, " ")
}

// Unique hands out identifiers that are unique within one document. The first
// claim of an id gets it verbatim; later claims get `_2`, `_3` and so on.
type Unique struct {
	claimed map[string]bool
}

// NewUnique creates an empty Unique.
func NewUnique() *Unique {
	return &Unique{claimed: make(map[string]bool)}
}

// Claim returns id, or id with the smallest numeric suffix not yet claimed.
func (u *Unique) Claim(id string) string {
	candidate := id
	for n := 2; u.claimed[candidate]; n++ {
		candidate = id + Separator + strconv.Itoa(n)
	}
	u.claimed[candidate] = true
	return candidate
}
