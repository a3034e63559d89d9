package dict

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// The nine record sets of one version. Fields, Components, Messages and
// MsgContents are required; the rest degrade to empty tables when absent.
var requiredSources = map[string]bool{
	"Fields.xml":      true,
	"Components.xml":  true,
	"Messages.xml":    true,
	"MsgContents.xml": true,
}

// LoadVersion parses one version's record sets from <dir>/<version>/Base and
// returns the fully indexed dictionary. A missing or structurally unparsable
// required source fails the whole version with a *LoadError; a malformed
// individual record is dropped with a warning.
func LoadVersion(dir, version string) (*Dictionary, error) {
	base := filepath.Join(dir, version, "Base")
	if st, err := os.Stat(base); err != nil || !st.IsDir() {
		return nil, &LoadError{Version: version, Source: base, Err: fmt.Errorf("version directory not found")}
	}

	var raw rawSets
	steps := []struct {
		file  string
		parse func([]byte) error
	}{
		{"Fields.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.fields) }},
		{"Enums.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.enums) }},
		{"Components.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.components) }},
		{"Messages.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.messages) }},
		{"Categories.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.categories) }},
		{"Sections.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.sections) }},
		{"Datatypes.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.datatypes) }},
		{"Abbreviations.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.abbreviations) }},
		{"MsgContents.xml", func(b []byte) error { return xml.Unmarshal(b, &raw.msgContents) }},
	}
	for _, step := range steps {
		path := filepath.Join(base, step.file)
		data, err := os.ReadFile(path)
		if err != nil {
			if requiredSources[step.file] {
				return nil, &LoadError{Version: version, Source: step.file, Err: err}
			}
			log.Warn().Str("version", version).Str("source", step.file).
				Msg("optional record set missing, loading empty")
			continue
		}
		if err := step.parse(data); err != nil {
			if requiredSources[step.file] {
				return nil, &LoadError{Version: version, Source: step.file, Err: err}
			}
			log.Warn().Str("version", version).Str("source", step.file).Err(err).
				Msg("optional record set unparsable, loading empty")
		}
	}

	d := newDictionary(version, raw.normalize(version))
	log.Info().Str("version", version).
		Int("fields", len(d.Fields)).
		Int("messages", len(d.Messages)).
		Int("components", len(d.Components)).
		Int("enums", len(d.Enums)).
		Msg("dictionary loaded")
	return d, nil
}

// ==== Raw XML shapes ====
//
// All leaf values decode as strings and are converted record by record, so a
// single malformed value drops one record instead of aborting the file.

type rawPedigree struct {
	Added        string `xml:"added,attr"`
	Updated      string `xml:"updated,attr"`
	Deprecated   string `xml:"deprecated,attr"`
	AddedEP      string `xml:"addedEP,attr"`
	UpdatedEP    string `xml:"updatedEP,attr"`
	DeprecatedEP string `xml:"deprecatedEP,attr"`
}

func (r rawPedigree) pedigree() Pedigree {
	return Pedigree{
		Added:        r.Added,
		Updated:      r.Updated,
		Deprecated:   r.Deprecated,
		AddedEP:      atoiDefault(r.AddedEP, 0),
		UpdatedEP:    atoiDefault(r.UpdatedEP, 0),
		DeprecatedEP: atoiDefault(r.DeprecatedEP, 0),
	}
}

type rawField struct {
	rawPedigree
	Tag           string `xml:"Tag"`
	Name          string `xml:"Name"`
	Type          string `xml:"Type"`
	AbbrName      string `xml:"AbbrName"`
	NotReqXML     string `xml:"NotReqXML"`
	Description   string `xml:"Description"`
	UnionDataType string `xml:"UnionDataType"`
}

type rawEnum struct {
	rawPedigree
	Tag          string `xml:"Tag"`
	Value        string `xml:"Value"`
	SymbolicName string `xml:"SymbolicName"`
	Group        string `xml:"Group"`
	Sort         string `xml:"Sort"`
	Description  string `xml:"Description"`
}

type rawComponent struct {
	rawPedigree
	ComponentID   string `xml:"ComponentID"`
	ComponentType string `xml:"ComponentType"`
	CategoryID    string `xml:"CategoryID"`
	Name          string `xml:"Name"`
	AbbrName      string `xml:"AbbrName"`
	NotReqXML     string `xml:"NotReqXML"`
	Description   string `xml:"Description"`
}

type rawMessage struct {
	rawPedigree
	ComponentID string `xml:"ComponentID"`
	MsgType     string `xml:"MsgType"`
	Name        string `xml:"Name"`
	CategoryID  string `xml:"CategoryID"`
	SectionID   string `xml:"SectionID"`
	AbbrName    string `xml:"AbbrName"`
	NotReqXML   string `xml:"NotReqXML"`
	Description string `xml:"Description"`
}

type rawCategory struct {
	rawPedigree
	CategoryID    string `xml:"CategoryID"`
	ComponentType string `xml:"ComponentType"`
	SectionID     string `xml:"SectionID"`
	Volume        string `xml:"Volume"`
	Description   string `xml:"Description"`
}

type rawSection struct {
	rawPedigree
	SectionID    string `xml:"SectionID"`
	Name         string `xml:"Name"`
	DisplayOrder string `xml:"DisplayOrder"`
	Volume       string `xml:"Volume"`
	Description  string `xml:"Description"`
}

type rawDatatype struct {
	rawPedigree
	Name        string   `xml:"Name"`
	BaseType    string   `xml:"BaseType"`
	Description string   `xml:"Description"`
	Examples    []string `xml:"Example"`
}

type rawAbbreviation struct {
	rawPedigree
	Term        string `xml:"Term"`
	AbbrTerm    string `xml:"AbbrTerm"`
	Description string `xml:"Description"`
}

type rawMsgContent struct {
	rawPedigree
	ComponentID string `xml:"ComponentID"`
	TagText     string `xml:"TagText"`
	Indent      string `xml:"Indent"`
	Position    string `xml:"Position"`
	Reqd        string `xml:"Reqd"`
	Description string `xml:"Description"`
}

type rawSets struct {
	fields        struct{ Items []rawField `xml:"Field"` }
	enums         struct{ Items []rawEnum `xml:"Enum"` }
	components    struct{ Items []rawComponent `xml:"Component"` }
	messages      struct{ Items []rawMessage `xml:"Message"` }
	categories    struct{ Items []rawCategory `xml:"Category"` }
	sections      struct{ Items []rawSection `xml:"Section"` }
	datatypes     struct{ Items []rawDatatype `xml:"Datatype"` }
	abbreviations struct{ Items []rawAbbreviation `xml:"Abbreviation"` }
	msgContents   struct{ Items []rawMsgContent `xml:"MsgContent"` }
}

// recordSets is the normalized output of ingestion, pre-indexing.
type recordSets struct {
	fields        []Field
	enums         []Enum
	components    []Component
	messages      []Message
	categories    []Category
	sections      []Section
	datatypes     []Datatype
	abbreviations []Abbreviation
	msgContents   []MsgContent
}

func (r *rawSets) normalize(version string) recordSets {
	var out recordSets

	drop := func(set, reason string) {
		log.Warn().Str("version", version).Str("set", set).Msg("dropping record: " + reason)
	}

	for _, f := range r.fields.Items {
		tag, err := strconv.Atoi(strings.TrimSpace(f.Tag))
		if err != nil || tag <= 0 || f.Name == "" {
			drop("fields", fmt.Sprintf("missing tag or name (tag=%q name=%q)", f.Tag, f.Name))
			continue
		}
		out.fields = append(out.fields, Field{
			Tag:           tag,
			Name:          f.Name,
			Type:          f.Type,
			AbbrName:      f.AbbrName,
			UnionDataType: f.UnionDataType,
			NotReqXML:     parseBool(f.NotReqXML),
			Description:   f.Description,
			Pedigree:      f.pedigree(),
		})
	}

	for _, e := range r.enums.Items {
		tag, err := strconv.Atoi(strings.TrimSpace(e.Tag))
		if err != nil || tag <= 0 || e.Value == "" {
			drop("enums", fmt.Sprintf("missing tag or value (tag=%q value=%q)", e.Tag, e.Value))
			continue
		}
		out.enums = append(out.enums, Enum{
			Tag:          tag,
			Value:        e.Value,
			SymbolicName: e.SymbolicName,
			Group:        e.Group,
			Sort:         atoiDefault(e.Sort, 0),
			Description:  e.Description,
			Pedigree:     e.pedigree(),
		})
	}

	for _, c := range r.components.Items {
		id, err := strconv.Atoi(strings.TrimSpace(c.ComponentID))
		if err != nil || id <= 0 || c.Name == "" {
			drop("components", fmt.Sprintf("missing id or name (id=%q name=%q)", c.ComponentID, c.Name))
			continue
		}
		ctype := c.ComponentType
		if ctype == "" {
			ctype = "Block"
		}
		out.components = append(out.components, Component{
			ComponentID:   id,
			ComponentType: ctype,
			CategoryID:    c.CategoryID,
			Name:          c.Name,
			AbbrName:      c.AbbrName,
			NotReqXML:     parseBool(c.NotReqXML),
			Description:   c.Description,
			Pedigree:      c.pedigree(),
		})
	}

	for _, m := range r.messages.Items {
		id, err := strconv.Atoi(strings.TrimSpace(m.ComponentID))
		if err != nil || id <= 0 || m.MsgType == "" {
			drop("messages", fmt.Sprintf("missing component id or msg type (id=%q type=%q)", m.ComponentID, m.MsgType))
			continue
		}
		section := m.SectionID
		if section == "" {
			section = "Other"
		}
		out.messages = append(out.messages, Message{
			ComponentID: id,
			MsgType:     m.MsgType,
			Name:        m.Name,
			CategoryID:  m.CategoryID,
			SectionID:   section,
			AbbrName:    m.AbbrName,
			NotReqXML:   parseBool(m.NotReqXML),
			Description: m.Description,
			Pedigree:    m.pedigree(),
		})
	}

	for _, c := range r.categories.Items {
		if c.CategoryID == "" {
			drop("categories", "missing category id")
			continue
		}
		out.categories = append(out.categories, Category{
			CategoryID:    c.CategoryID,
			ComponentType: c.ComponentType,
			SectionID:     c.SectionID,
			Volume:        c.Volume,
			Description:   c.Description,
			Pedigree:      c.pedigree(),
		})
	}

	for _, s := range r.sections.Items {
		if s.SectionID == "" {
			drop("sections", "missing section id")
			continue
		}
		out.sections = append(out.sections, Section{
			SectionID:    s.SectionID,
			Name:         s.Name,
			DisplayOrder: atoiDefault(s.DisplayOrder, 0),
			Volume:       s.Volume,
			Description:  s.Description,
			Pedigree:     s.pedigree(),
		})
	}

	for _, d := range r.datatypes.Items {
		if d.Name == "" {
			drop("datatypes", "missing name")
			continue
		}
		out.datatypes = append(out.datatypes, Datatype{
			Name:        d.Name,
			BaseType:    d.BaseType,
			Description: d.Description,
			Examples:    d.Examples,
			Pedigree:    d.pedigree(),
		})
	}

	for _, a := range r.abbreviations.Items {
		if a.AbbrTerm == "" {
			drop("abbreviations", "missing abbreviated term")
			continue
		}
		out.abbreviations = append(out.abbreviations, Abbreviation{
			Term:        a.Term,
			AbbrTerm:    a.AbbrTerm,
			Description: a.Description,
			Pedigree:    a.pedigree(),
		})
	}

	for _, mc := range r.msgContents.Items {
		id, err := strconv.Atoi(strings.TrimSpace(mc.ComponentID))
		tagText := strings.TrimSpace(mc.TagText)
		if err != nil || id <= 0 || tagText == "" {
			drop("msgcontents", fmt.Sprintf("missing parent id or tag text (id=%q text=%q)", mc.ComponentID, mc.TagText))
			continue
		}
		out.msgContents = append(out.msgContents, MsgContent{
			ComponentID: id,
			TagText:     tagText,
			Indent:      atoiDefault(mc.Indent, 0),
			Position:    atofDefault(mc.Position, 0),
			Reqd:        parseBool(mc.Reqd),
			Description: mc.Description,
			Pedigree:    mc.pedigree(),
		})
	}

	return out
}

// ==== Tolerant scalar conversion ====

func atoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atofDefault(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
