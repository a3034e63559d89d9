package dict

import "strings"

// Pedigree records when an entity entered, changed in and (possibly) left the
// protocol. EP numbers are extension-pack revisions between point releases.
type Pedigree struct {
	Added        string `json:"added,omitempty"`
	Updated      string `json:"updated,omitempty"`
	Deprecated   string `json:"deprecated,omitempty"`
	AddedEP      int    `json:"addedEP,omitempty"`
	UpdatedEP    int    `json:"updatedEP,omitempty"`
	DeprecatedEP int    `json:"deprecatedEP,omitempty"`
}

func (p Pedigree) String() string {
	added := p.Added
	if added == "" {
		added = "Unknown"
	}
	s := "Added: " + added
	if p.Updated != "" {
		s += ", Updated: " + p.Updated
	}
	if p.Deprecated != "" {
		s += ", Deprecated: " + p.Deprecated
	}
	return s
}

// Field is an atomic typed data element, unique by tag within a version.
type Field struct {
	Tag           int    `json:"tag"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	AbbrName      string `json:"abbr_name,omitempty"`
	UnionDataType string `json:"union_data_type,omitempty"`
	NotReqXML     bool   `json:"not_req_xml"`
	Description   string `json:"description"`
	Pedigree
}

// Enum is one permitted literal value of a field's code set.
type Enum struct {
	Tag          int    `json:"tag"`
	Value        string `json:"value"`
	SymbolicName string `json:"symbolic_name"`
	Group        string `json:"group,omitempty"`
	Sort         int    `json:"sort,omitempty"`
	Description  string `json:"description"`
	Pedigree
}

// Component is a named ordered group of field/component references.
type Component struct {
	ComponentID   int    `json:"component_id"`
	ComponentType string `json:"component_type"`
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	AbbrName      string `json:"abbr_name,omitempty"`
	NotReqXML     bool   `json:"not_req_xml"`
	Description   string `json:"description"`
	Pedigree
}

// IsRepeatingGroup reports whether the component carries a leading NumInGroup
// count field. The trait is encoded in the repository's component type name.
func (c Component) IsRepeatingGroup() bool {
	return strings.Contains(c.ComponentType, "Repeating")
}

// Message is a typed top-level composition owning one root component.
type Message struct {
	ComponentID int    `json:"component_id"`
	MsgType     string `json:"msg_type"`
	Name        string `json:"name"`
	CategoryID  string `json:"category_id"`
	SectionID   string `json:"section_id"`
	AbbrName    string `json:"abbr_name,omitempty"`
	NotReqXML   bool   `json:"not_req_xml"`
	Description string `json:"description"`
	Pedigree
}

// Category is a flat reference table entry used for display and filtering.
type Category struct {
	CategoryID    string `json:"category_id"`
	ComponentType string `json:"component_type,omitempty"`
	SectionID     string `json:"section_id,omitempty"`
	Volume        string `json:"volume,omitempty"`
	Description   string `json:"description,omitempty"`
	Pedigree
}

type Section struct {
	SectionID    string `json:"section_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	Volume       string `json:"volume,omitempty"`
	Description  string `json:"description,omitempty"`
	Pedigree
}

type Datatype struct {
	Name        string   `json:"name"`
	BaseType    string   `json:"base_type,omitempty"`
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
	Pedigree
}

type Abbreviation struct {
	Term        string `json:"term"`
	AbbrTerm    string `json:"abbr_term"`
	Description string `json:"description,omitempty"`
	Pedigree
}

// MsgContent is one composition link: an ordered element of a parent
// component. TagText is either a field tag (numeric) or a component name.
type MsgContent struct {
	ComponentID int     `json:"component_id"`
	TagText     string  `json:"tag_text"`
	Indent      int     `json:"indent"`
	Position    float64 `json:"position"`
	Reqd        bool    `json:"reqd"`
	Description string  `json:"description,omitempty"`
	Pedigree
}
