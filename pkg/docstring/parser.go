package docstring

import (
	"regexp"
	"strings"
)

// FormalDeprecationMarker is the structured deprecation directive recognized
// in docstrings.
const FormalDeprecationMarker = ".. deprecated::"

var (
	parametersRe = regexp.MustCompile(`\nParameters\n----`)
	returnsRe    = regexp.MustCompile(`\nReturns\n----`)
	otherRe      = regexp.MustCompile(`\nOther Parameters\n----`)

	// Any underlined section header, used to find where a section ends.
	sectionRe = regexp.MustCompile(`\n[A-Z][A-Za-z ]*\n----`)

	returnNameRe = regexp.MustCompile(`([\w]+):`)
)

// HasParametersSection reports whether the docstring contains a Parameters
// section header.
func HasParametersSection(doc string) bool {
	return parametersRe.MatchString(doc)
}

// ParamSearchRegion returns the portion of the docstring in which parameter
// entries should be searched. The region starts at the Parameters header and
// excludes the Returns section, re-including any Other Parameters section
// that follows it, so that a documented return value whose name coincides
// with an input name cannot satisfy the search. Returns ok=false when the
// docstring has no Parameters section.
func ParamSearchRegion(doc string) (string, bool) {
	start := parametersRe.FindStringIndex(doc)
	if start == nil {
		return "", false
	}

	returns := returnsRe.FindStringIndex(doc)
	other := otherRe.FindStringIndex(doc)

	if returns == nil {
		return doc[start[0]:], true
	}
	region := doc[start[0]:returns[0]]
	if other != nil && other[0] > returns[0] {
		region += doc[other[0]:]
	}
	return region, true
}

// ParamResult is the outcome of looking up one parameter name in a docstring.
type ParamResult int

const (
	// ParamMissingSection means the docstring has no Parameters section at
	// all, so no lookup was possible.
	ParamMissingSection ParamResult = iota
	// ParamMissing means the Parameters section exists but does not document
	// the name.
	ParamMissing
	// ParamFound means the name is documented in conformant style
	// ("name : type").
	ParamFound
	// ParamFoundNoSpace means the name is documented but without the space
	// before the colon ("name: type"), a style violation.
	ParamFoundNoSpace
)

// ParamCheck is the full result of CheckParam, including whether the name
// appears a second time in the search region.
type ParamCheck struct {
	Result    ParamResult
	Duplicate bool
}

// Documented reports whether the parameter was found in either style.
func (c ParamCheck) Documented() bool {
	return c.Result == ParamFound || c.Result == ParamFoundNoSpace
}

// CheckParam looks for a parameter entry in the docstring's Parameters
// section. An entry is a line of the form "name : type"; the name may appear
// in a comma-separated group ("sys1, sys2 : LTI") or alongside an ellipsis.
// A match without the space before the colon is reported as a style issue
// rather than a failure, and a second occurrence of the name later in the
// region is reported as a duplicate.
func CheckParam(doc, name string) ParamCheck {
	region, ok := ParamSearchRegion(doc)
	if !ok {
		return ParamCheck{Result: ParamMissingSection}
	}
	return checkParamRegion(region, name)
}

func checkParamRegion(region, name string) ParamCheck {
	quoted := regexp.QuoteMeta(name)
	group := `((\w+|\.{3}), )*` + quoted + `(, (\w+|\.{3}))*`

	noSpaceRe := regexp.MustCompile(`\n` + group + `:`)
	conformRe := regexp.MustCompile(`\n` + group + ` :`)
	eitherRe := regexp.MustCompile(`\n` + group + `[ ]*:`)

	var check ParamCheck
	var end int
	if m := noSpaceRe.FindStringIndex(region); m != nil {
		check.Result = ParamFoundNoSpace
		end = m[1]
	} else if m := conformRe.FindStringIndex(region); m != nil {
		check.Result = ParamFound
		end = m[1]
	} else {
		check.Result = ParamMissing
		return check
	}

	if eitherRe.MatchString(region[end:]) {
		check.Duplicate = true
	}
	return check
}

// HasFormalDeprecation reports whether the docstring carries the structured
// deprecation directive.
func HasFormalDeprecation(doc string) bool {
	return strings.Contains(doc, FormalDeprecationMarker)
}

// MentionsDeprecated reports whether the text contains the informal phrasing
// "name is deprecated" (or "name() is deprecated") for the given callable.
func MentionsDeprecated(text, name string) bool {
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `(\(\))? is deprecated`)
	return re.MatchString(text)
}

// ReturnEntry is one documented return value: "name : type" entries carry
// both fields, bare "type" entries leave Name empty.
type ReturnEntry struct {
	Name string
	Type string
}

// ReturnEntries parses the entries of the docstring's Returns section.
func ReturnEntries(doc string) []ReturnEntry {
	header := returnsRe.FindStringIndex(doc)
	if header == nil {
		return nil
	}
	body := doc[header[1]:]

	// Drop the remainder of the underline.
	nl := strings.Index(body, "\n")
	if nl < 0 {
		return nil
	}
	body = body[nl:]

	// The section runs until the next underlined header.
	if next := sectionRe.FindStringIndex(body); next != nil {
		body = body[:next[0]]
	}

	var entries []ReturnEntry
	for _, line := range strings.Split(body, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		if i := strings.Index(line, " : "); i >= 0 {
			entries = append(entries, ReturnEntry{
				Name: strings.TrimSpace(line[:i]),
				Type: strings.TrimSpace(line[i+3:]),
			})
		} else {
			entries = append(entries, ReturnEntry{Type: strings.TrimSpace(line)})
		}
	}
	return entries
}

// EmbeddedName extracts a parameter-like name embedded in a return entry's
// type annotation ("K: 2D array"), which indicates the entry was written
// without the space separating name and type. Returns "" when the type does
// not embed a name.
func (e ReturnEntry) EmbeddedName() string {
	if e.Name != "" {
		return ""
	}
	if m := returnNameRe.FindStringSubmatch(e.Type); m != nil {
		return m[1]
	}
	return ""
}
