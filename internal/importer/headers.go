package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type field int

const (
	fieldKeyword field = iota
	fieldServiceURL
	fieldCluster
	fieldStatus
)

// synonyms maps folded header text onto canonical fields. Keys must already
// be in foldHeader form: lowercase, single-spaced, no punctuation.
var synonyms = map[string]field{
	"main keyword":        fieldKeyword,
	"keyword":             fieldKeyword,
	"keywords":            fieldKeyword,
	"topic":               fieldKeyword,
	"title":               fieldKeyword,
	"primary keyword":     fieldKeyword,
	"focus keyword":       fieldKeyword,
	"service url":         fieldServiceURL,
	"url":                 fieldServiceURL,
	"link":                fieldServiceURL,
	"website":             fieldServiceURL,
	"service link":        fieldServiceURL,
	"target url":          fieldServiceURL,
	"cluster keywords":    fieldCluster,
	"cluster":             fieldCluster,
	"secondary keywords":  fieldCluster,
	"related keywords":    fieldCluster,
	"supporting keywords": fieldCluster,
	"status":              fieldStatus,
	"state":               fieldStatus,
}

type columns struct {
	keyword    int
	serviceURL int
	cluster    int
	status     int
}

// resolveColumns scans headers left to right; the first header matching a
// field's synonyms claims that field, later duplicates are ignored.
func resolveColumns(headers []string) columns {
	cols := columns{keyword: -1, serviceURL: -1, cluster: -1, status: -1}
	for i, header := range headers {
		f, ok := synonyms[foldHeader(header)]
		if !ok {
			continue
		}
		switch f {
		case fieldKeyword:
			if cols.keyword < 0 {
				cols.keyword = i
			}
		case fieldServiceURL:
			if cols.serviceURL < 0 {
				cols.serviceURL = i
			}
		case fieldCluster:
			if cols.cluster < 0 {
				cols.cluster = i
			}
		case fieldStatus:
			if cols.status < 0 {
				cols.status = i
			}
		}
	}
	return cols
}

// foldHeader normalizes a header cell for synonym lookup: compatibility
// normalization, Unicode case folding, then separators collapsed to single
// spaces so "Main_Keyword", "main-keyword", and "Main Keyword" all compare
// equal. Runes that are neither letters, digits, nor separators are dropped.
func foldHeader(header string) string {
	folded := cases.Fold().String(norm.NFKC.String(header))
	var b strings.Builder
	prevSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '/':
			if !prevSpace && b.Len() > 0 {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
