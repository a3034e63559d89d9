package dict

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SearchType restricts which corpora a search runs over.
type SearchType string

const (
	SearchMessage   SearchType = "message"
	SearchField     SearchType = "field"
	SearchComponent SearchType = "component"
	SearchEnum      SearchType = "enum"
	SearchAll       SearchType = "all"
)

// searchGroupOrder fixes the response group ordering for "all" searches.
var searchGroupOrder = []SearchType{SearchMessage, SearchField, SearchComponent, SearchEnum}

// matched_field values
const (
	matchedName = "name"
	matchedAbbr = "abbreviation"
	matchedDesc = "description"
)

const searchResultCap = 100

// SearchResult is one match. Enum matches carry their owning field in Name
// and Tag; a bare code without field context is not useful to a caller.
type SearchResult struct {
	Type         SearchType `json:"type"`
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	AbbrName     string     `json:"abbr_name,omitempty"`
	Description  string     `json:"description,omitempty"`
	Tag          int        `json:"tag,omitempty"`
	MsgType      string     `json:"msg_type,omitempty"`
	Category     string     `json:"category,omitempty"`
	MatchedField string     `json:"matched_field"`
}

// SearchGroup is the per-entity-type slice of an "all" response.
type SearchGroup struct {
	Type    SearchType     `json:"type"`
	Results []SearchResult `json:"results"`
}

type SearchResponse struct {
	Query      string        `json:"query"`
	Version    string        `json:"version"`
	Groups     []SearchGroup `json:"groups"`
	TotalCount int           `json:"total_count"`
}

// searchDoc is one pre-folded corpus entry.
type searchDoc struct {
	typ      SearchType
	keyNum   int // tag or component id, for deterministic tie-breaks
	nameFold string
	abbrFold string
	descFold string
	result   SearchResult
}

type searchIndex struct {
	docs map[SearchType][]searchDoc
}

func newSearchIndex(d *Dictionary) *searchIndex {
	idx := &searchIndex{docs: make(map[SearchType][]searchDoc)}

	add := func(doc searchDoc) {
		doc.nameFold = strings.ToLower(doc.result.Name)
		doc.abbrFold = strings.ToLower(doc.result.AbbrName)
		doc.descFold = strings.ToLower(doc.result.Description)
		idx.docs[doc.typ] = append(idx.docs[doc.typ], doc)
	}

	for i := range d.Messages {
		m := &d.Messages[i]
		add(searchDoc{typ: SearchMessage, keyNum: m.ComponentID, result: SearchResult{
			Type:        SearchMessage,
			ID:          itoa(m.ComponentID),
			Name:        m.Name,
			AbbrName:    m.AbbrName,
			Description: synopsis(m.Description),
			MsgType:     m.MsgType,
			Category:    m.CategoryID,
		}})
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		add(searchDoc{typ: SearchField, keyNum: f.Tag, result: SearchResult{
			Type:        SearchField,
			ID:          itoa(f.Tag),
			Name:        f.Name,
			AbbrName:    f.AbbrName,
			Description: synopsis(f.Description),
			Tag:         f.Tag,
		}})
	}
	for i := range d.Components {
		c := &d.Components[i]
		add(searchDoc{typ: SearchComponent, keyNum: c.ComponentID, result: SearchResult{
			Type:        SearchComponent,
			ID:          itoa(c.ComponentID),
			Name:        c.Name,
			AbbrName:    c.AbbrName,
			Description: synopsis(c.Description),
			Category:    c.CategoryID,
		}})
	}
	for i := range d.Enums {
		e := &d.Enums[i]
		fieldName := ""
		if f, ok := d.fieldByTag[e.Tag]; ok {
			fieldName = f.Name
		}
		doc := searchDoc{typ: SearchEnum, keyNum: e.Tag, result: SearchResult{
			Type:        SearchEnum,
			ID:          fmt.Sprintf("%d_%s", e.Tag, e.Value),
			Name:        fmt.Sprintf("%s(%d) = %s", fieldName, e.Tag, e.Value),
			Description: synopsis(e.Description),
			Tag:         e.Tag,
		}}
		// codes match on their symbolic name, not the rendered display name
		doc.nameFold = strings.ToLower(e.SymbolicName)
		doc.abbrFold = doc.nameFold
		doc.descFold = strings.ToLower(doc.result.Description)
		idx.docs[doc.typ] = append(idx.docs[doc.typ], doc)
	}

	return idx
}

// Search runs a literal or regex query over the selected corpora and returns
// matches grouped by entity type, each group sorted by name then key.
func (d *Dictionary) Search(term string, typ SearchType, isRegex, matchAbbrOnly bool) (*SearchResponse, error) {
	types, err := searchTypes(typ)
	if err != nil {
		return nil, err
	}

	match, err := newMatcher(term, isRegex)
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{Query: term, Version: d.Version, Groups: []SearchGroup{}}
	remaining := searchResultCap
	for _, t := range types {
		if remaining == 0 {
			break
		}
		docs := d.search.docs[t]

		type hit struct {
			doc  searchDoc
			rank int // name/abbr matches order before description matches
		}
		var hits []hit
		for _, doc := range docs {
			switch {
			case matchAbbrOnly:
				if doc.result.AbbrName != "" && match(doc.result.AbbrName, doc.abbrFold) {
					hits = append(hits, hit{doc: withMatched(doc, matchedAbbr), rank: 0})
				}
			case match(doc.result.Name, doc.nameFold):
				hits = append(hits, hit{doc: withMatched(doc, matchedName), rank: 0})
			case match(doc.result.Description, doc.descFold):
				hits = append(hits, hit{doc: withMatched(doc, matchedDesc), rank: 1})
			}
		}
		if len(hits) == 0 {
			continue
		}
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].rank != hits[j].rank {
				return hits[i].rank < hits[j].rank
			}
			if hits[i].doc.nameFold != hits[j].doc.nameFold {
				return hits[i].doc.nameFold < hits[j].doc.nameFold
			}
			return hits[i].doc.keyNum < hits[j].doc.keyNum
		})
		if len(hits) > remaining {
			hits = hits[:remaining]
		}
		group := SearchGroup{Type: t, Results: make([]SearchResult, 0, len(hits))}
		for _, h := range hits {
			group.Results = append(group.Results, h.doc.result)
		}
		resp.Groups = append(resp.Groups, group)
		resp.TotalCount += len(group.Results)
		remaining -= len(group.Results)
	}
	return resp, nil
}

func withMatched(doc searchDoc, matched string) searchDoc {
	doc.result.MatchedField = matched
	return doc
}

func searchTypes(typ SearchType) ([]SearchType, error) {
	switch typ {
	case SearchAll, "":
		return searchGroupOrder, nil
	case SearchMessage, SearchField, SearchComponent, SearchEnum:
		return []SearchType{typ}, nil
	}
	return nil, invalidf("search_type", "unknown search type %q", typ)
}

// newMatcher returns a predicate over (original, folded) text. Literal terms
// compare case-insensitively against the fold; regex terms compile with (?i)
// and fail fast on bad syntax, never falling back to literal matching.
func newMatcher(term string, isRegex bool) (func(orig, fold string) bool, error) {
	if isRegex {
		re, err := regexp.Compile("(?i)" + term)
		if err != nil {
			return nil, invalidf("query", "bad regular expression: %v", err)
		}
		return func(orig, _ string) bool { return re.MatchString(orig) }, nil
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(_, fold string) bool {
		return needle != "" && strings.Contains(fold, needle)
	}, nil
}

// synopsis truncates long descriptions for list/search payloads.
func synopsis(desc string) string {
	if len(desc) > 200 {
		return desc[:200] + "..."
	}
	return desc
}
