package dict

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func itoa(n int) string { return strconv.Itoa(n) }

// Dictionary holds one version's normalized tables and indices. Built once by
// LoadVersion and never mutated afterwards, so concurrent reads need no locks.
type Dictionary struct {
	Version string

	Fields        []Field
	Enums         []Enum
	Components    []Component
	Messages      []Message
	Categories    []Category
	Sections      []Section
	Datatypes     []Datatype
	Abbreviations []Abbreviation
	MsgContents   []MsgContent

	// primary indices
	fieldByTag     map[int]*Field
	componentByID  map[int]*Component
	messageByType  map[string]*Message
	messageByComp  map[int]*Message
	categoryByID   map[string]*Category
	sectionByID    map[string]*Section
	datatypeByName map[string]*Datatype

	// secondary name indices (lower-cased)
	fieldByName     map[string]*Field
	componentByName map[string]*Component

	// grouped lookups
	enumsByTag     map[int][]Enum
	contentsByComp map[int][]MsgContent

	resolver *Resolver
	search   *searchIndex
}

func newDictionary(version string, sets recordSets) *Dictionary {
	d := &Dictionary{
		Version:       version,
		Enums:         sets.enums,
		Categories:    sets.categories,
		Sections:      sets.sections,
		Datatypes:     sets.datatypes,
		Abbreviations: sets.abbreviations,
		MsgContents:   sets.msgContents,

		fieldByTag:      make(map[int]*Field, len(sets.fields)),
		componentByID:   make(map[int]*Component, len(sets.components)),
		messageByType:   make(map[string]*Message, len(sets.messages)),
		messageByComp:   make(map[int]*Message, len(sets.messages)),
		categoryByID:    make(map[string]*Category, len(sets.categories)),
		sectionByID:     make(map[string]*Section, len(sets.sections)),
		datatypeByName:  make(map[string]*Datatype, len(sets.datatypes)),
		fieldByName:     make(map[string]*Field, len(sets.fields)),
		componentByName: make(map[string]*Component, len(sets.components)),
		enumsByTag:      make(map[int][]Enum),
		contentsByComp:  make(map[int][]MsgContent),
	}

	dup := func(set, key string) {
		log.Warn().Str("version", version).Str("set", set).Str("key", key).
			Msg("dropping record with duplicate primary key")
	}

	// first record wins on duplicate keys; pointer indices are built only
	// after the backing slices stop growing
	seenTag := make(map[int]bool, len(sets.fields))
	for _, f := range sets.fields {
		if seenTag[f.Tag] {
			dup("fields", f.Name)
			continue
		}
		seenTag[f.Tag] = true
		d.Fields = append(d.Fields, f)
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		d.fieldByTag[f.Tag] = f
		d.fieldByName[strings.ToLower(f.Name)] = f
	}

	seenComp := make(map[int]bool, len(sets.components))
	for _, c := range sets.components {
		if seenComp[c.ComponentID] {
			dup("components", c.Name)
			continue
		}
		seenComp[c.ComponentID] = true
		d.Components = append(d.Components, c)
	}
	for i := range d.Components {
		c := &d.Components[i]
		d.componentByID[c.ComponentID] = c
		d.componentByName[strings.ToLower(c.Name)] = c
	}

	seenMsg := make(map[string]bool, len(sets.messages))
	for _, m := range sets.messages {
		if seenMsg[m.MsgType] {
			dup("messages", m.MsgType)
			continue
		}
		seenMsg[m.MsgType] = true
		d.Messages = append(d.Messages, m)
	}
	for i := range d.Messages {
		m := &d.Messages[i]
		d.messageByType[m.MsgType] = m
		d.messageByComp[m.ComponentID] = m
	}

	for i := range d.Categories {
		d.categoryByID[d.Categories[i].CategoryID] = &d.Categories[i]
	}
	for i := range d.Sections {
		d.sectionByID[d.Sections[i].SectionID] = &d.Sections[i]
	}
	for i := range d.Datatypes {
		d.datatypeByName[strings.ToLower(d.Datatypes[i].Name)] = &d.Datatypes[i]
	}

	for _, e := range d.Enums {
		d.enumsByTag[e.Tag] = append(d.enumsByTag[e.Tag], e)
	}
	for tag := range d.enumsByTag {
		es := d.enumsByTag[tag]
		sort.SliceStable(es, func(i, j int) bool {
			if es[i].Sort != es[j].Sort {
				return es[i].Sort < es[j].Sort
			}
			return es[i].Value < es[j].Value
		})
	}

	for _, mc := range d.MsgContents {
		d.contentsByComp[mc.ComponentID] = append(d.contentsByComp[mc.ComponentID], mc)
	}
	for id := range d.contentsByComp {
		cs := d.contentsByComp[id]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Position < cs[j].Position })
	}

	d.resolver = newResolver(d)
	d.search = newSearchIndex(d)
	return d
}

// ==== Primary-key lookups ====

func (d *Dictionary) FieldByTag(tag int) (*Field, error) {
	if f, ok := d.fieldByTag[tag]; ok {
		return f, nil
	}
	return nil, &NotFoundError{Version: d.Version, Entity: "field", Key: itoa(tag)}
}

func (d *Dictionary) FieldByName(name string) (*Field, error) {
	if f, ok := d.fieldByName[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, &NotFoundError{Version: d.Version, Entity: "field", Key: name}
}

func (d *Dictionary) ComponentByID(id int) (*Component, error) {
	if c, ok := d.componentByID[id]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Version: d.Version, Entity: "component", Key: itoa(id)}
}

func (d *Dictionary) ComponentByName(name string) (*Component, error) {
	if c, ok := d.componentByName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Version: d.Version, Entity: "component", Key: name}
}

func (d *Dictionary) MessageByType(msgType string) (*Message, error) {
	if m, ok := d.messageByType[msgType]; ok {
		return m, nil
	}
	return nil, &NotFoundError{Version: d.Version, Entity: "message", Key: msgType}
}

// MessageByRootComponent maps a component id back to the message owning it as
// its root, if any.
func (d *Dictionary) MessageByRootComponent(id int) (*Message, bool) {
	m, ok := d.messageByComp[id]
	return m, ok
}

// EnumsForField returns the code set of a field in display order. Empty when
// the field has none (or the enums source was absent).
func (d *Dictionary) EnumsForField(tag int) []Enum {
	return d.enumsByTag[tag]
}

// ContentsOf returns a component's ordered element links.
func (d *Dictionary) ContentsOf(componentID int) []MsgContent {
	return d.contentsByComp[componentID]
}

// Resolver exposes the version's composition resolver.
func (d *Dictionary) Resolver() *Resolver { return d.resolver }
