package classify

import (
	"regexp"
	"strings"

	"github.com/ppiankov/proctrim/internal/textutil"
)

// LineClassifier is a boolean predicate over a single raw document line.
type LineClassifier interface {
	// Name returns the classifier name for diagnostics.
	Name() string

	// Match reports whether the line satisfies the predicate.
	Match(line string) bool
}

// abstractStartRE matches a leading session code ("A-102.", "PL05.", "123.")
// followed by the abstract title. Anchored: a line failing this can never
// open a block.
var abstractStartRE = regexp.MustCompile(`^((?:[A-Z]{1,3}-)?(?:[A-Z]{1,2})?\d{2,3}|\d{2,3})\.\s+(.+)$`)

// credentialRE matches academic/clinical degree abbreviations that mark
// author lines.
var credentialRE = regexp.MustCompile(`(?i)\b(MD|M\.D\.|DO|D\.O\.|PHD|PH\.D\.|MSC|M\.S\.|MS|BS|B\.S\.|BA|B\.A\.|MBA|MBBS|MPH|RN|FRCPC|FAAN|FRCP|DPhil)\b`)

// AbstractStart detects abstract-start marker lines and parses their
// session code and tentative title.
type AbstractStart struct{}

// NewAbstractStart creates the abstract-start classifier.
func NewAbstractStart() *AbstractStart { return &AbstractStart{} }

func (c *AbstractStart) Name() string { return "abstract_start" }

func (c *AbstractStart) Match(line string) bool {
	return abstractStartRE.MatchString(strings.TrimSpace(line))
}

// Parse splits an abstract-start line into its session code and the
// remainder after the period. ok is false when the line is not a marker.
func (c *AbstractStart) Parse(line string) (code, title string, ok bool) {
	m := abstractStartRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// StripCode returns the line with any leading session code removed.
func (c *AbstractStart) StripCode(line string) string {
	if _, title, ok := c.Parse(line); ok {
		return title
	}
	return strings.TrimSpace(line)
}

// AuthorLike flags lines with the dense punctuation or credential tokens
// typical of author/affiliation lists.
type AuthorLike struct{}

// NewAuthorLike creates the author-like classifier.
func NewAuthorLike() *AuthorLike { return &AuthorLike{} }

func (c *AuthorLike) Name() string { return "author_like" }

func (c *AuthorLike) Match(line string) bool {
	if credentialRE.MatchString(line) {
		return true
	}
	commas := strings.Count(line, ",")
	if commas >= 3 {
		return true
	}
	return strings.Contains(line, ";") && commas >= 1
}

// InstitutionLike flags lines mentioning institutional or geographic markers.
type InstitutionLike struct {
	markers []string
}

// NewInstitutionLike creates the institution-like classifier.
func NewInstitutionLike(m Markers) *InstitutionLike {
	return &InstitutionLike{markers: m.Institution}
}

func (c *InstitutionLike) Name() string { return "institution_like" }

func (c *InstitutionLike) Match(line string) bool {
	normalized := textutil.Normalize(line)
	for _, marker := range c.markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// FooterLike flags running-footer boilerplate lines.
type FooterLike struct {
	markers []string
}

// NewFooterLike creates the footer-like classifier.
func NewFooterLike(m Markers) *FooterLike {
	return &FooterLike{markers: m.Footer}
}

func (c *FooterLike) Name() string { return "footer_like" }

func (c *FooterLike) Match(line string) bool {
	normalized := textutil.Normalize(line)
	for _, marker := range c.markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// TitleLike flags prose-like title lines: none of the other four classes,
// 4-24 words, and nearly every word containing a letter.
type TitleLike struct {
	abstract    *AbstractStart
	author      *AuthorLike
	institution *InstitutionLike
	footer      *FooterLike
}

// NewTitleLike creates the title-like classifier over its sibling predicates.
func NewTitleLike(abstract *AbstractStart, author *AuthorLike, institution *InstitutionLike, footer *FooterLike) *TitleLike {
	return &TitleLike{abstract: abstract, author: author, institution: institution, footer: footer}
}

func (c *TitleLike) Name() string { return "title_like" }

func (c *TitleLike) Match(line string) bool {
	if c.abstract.Match(line) || c.author.Match(line) || c.institution.Match(line) || c.footer.Match(line) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 4 || len(words) > 24 {
		return false
	}
	alphaWords := 0
	for _, word := range words {
		if containsLetter(word) {
			alphaWords++
		}
	}
	threshold := len(words) - 2
	if threshold < 3 {
		threshold = 3
	}
	return alphaWords >= threshold
}

func containsLetter(word string) bool {
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			return true
		}
	}
	return false
}

// Set bundles the five line classifiers built over one marker table.
type Set struct {
	AbstractStart *AbstractStart
	AuthorLike    *AuthorLike
	Institution   *InstitutionLike
	Footer        *FooterLike
	TitleLike     *TitleLike
	Markers       Markers
}

// NewSet builds the full classifier set from a marker table.
func NewSet(m Markers) *Set {
	abstract := NewAbstractStart()
	author := NewAuthorLike()
	institution := NewInstitutionLike(m)
	footer := NewFooterLike(m)
	return &Set{
		AbstractStart: abstract,
		AuthorLike:    author,
		Institution:   institution,
		Footer:        footer,
		TitleLike:     NewTitleLike(abstract, author, institution, footer),
		Markers:       m,
	}
}
