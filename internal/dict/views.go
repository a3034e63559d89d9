package dict

// Detail views join an entity with its composition and cross-references.

type FieldDetail struct {
	Field
	Enums             []Enum   `json:"enums"`
	UsageInMessages   []string `json:"usage_in_messages"`
	UsageInComponents []string `json:"usage_in_components"`
}

type MessageDetail struct {
	Message
	Contents   []MsgContent `json:"contents"`
	Fields     []Field      `json:"fields"`
	Components []Component  `json:"components"`
}

type ComponentDetail struct {
	Component
	Contents          []MsgContent `json:"contents"`
	Fields            []Field      `json:"fields"`
	NestedComponents  []Component  `json:"nested_components"`
	UsageInMessages   []string     `json:"usage_in_messages"`
	UsageInComponents []string     `json:"usage_in_components"`
}

// FieldDetailByTag returns a field with its code set and where-used lists.
func (d *Dictionary) FieldDetailByTag(tag int) (*FieldDetail, error) {
	f, err := d.FieldByTag(tag)
	if err != nil {
		return nil, err
	}
	return d.fieldDetail(f), nil
}

// FieldDetailByName is the name-indexed variant of FieldDetailByTag.
func (d *Dictionary) FieldDetailByName(name string) (*FieldDetail, error) {
	f, err := d.FieldByName(name)
	if err != nil {
		return nil, err
	}
	return d.fieldDetail(f), nil
}

func (d *Dictionary) fieldDetail(f *Field) *FieldDetail {
	usage := d.resolver.FieldUsage(f.Tag)
	enums := d.enumsByTag[f.Tag]
	if enums == nil {
		enums = []Enum{}
	}
	return &FieldDetail{
		Field:             *f,
		Enums:             enums,
		UsageInMessages:   usage.Messages,
		UsageInComponents: usage.Components,
	}
}

// MessageDetailByType returns a message with its ordered contents and the
// direct child fields and components of its root component.
func (d *Dictionary) MessageDetailByType(msgType string) (*MessageDetail, error) {
	m, err := d.MessageByType(msgType)
	if err != nil {
		return nil, err
	}
	fields, comps, err := d.directChildren(m.ComponentID)
	if err != nil {
		return nil, err
	}
	return &MessageDetail{
		Message:    *m,
		Contents:   d.ContentsOf(m.ComponentID),
		Fields:     fields,
		Components: comps,
	}, nil
}

// ComponentDetailByName returns a component with contents, direct children
// and where-used lists.
func (d *Dictionary) ComponentDetailByName(name string) (*ComponentDetail, error) {
	c, err := d.ComponentByName(name)
	if err != nil {
		return nil, err
	}
	fields, comps, err := d.directChildren(c.ComponentID)
	if err != nil {
		return nil, err
	}
	usage := d.resolver.ComponentUsage(c.ComponentID)
	return &ComponentDetail{
		Component:         *c,
		Contents:          d.ContentsOf(c.ComponentID),
		Fields:            fields,
		NestedComponents:  comps,
		UsageInMessages:   usage.Messages,
		UsageInComponents: usage.Components,
	}, nil
}

// Codeset returns the enum values of a field, failing when the field does not
// exist or owns no codes.
func (d *Dictionary) Codeset(tag int) ([]Enum, error) {
	if _, err := d.FieldByTag(tag); err != nil {
		return nil, err
	}
	enums := d.enumsByTag[tag]
	if len(enums) == 0 {
		return nil, &NotFoundError{Version: d.Version, Entity: "codeset", Key: itoa(tag)}
	}
	return enums, nil
}

func (d *Dictionary) directChildren(componentID int) ([]Field, []Component, error) {
	rc, err := d.resolver.Resolve(componentID)
	if err != nil {
		return nil, nil, err
	}
	fields := []Field{}
	comps := []Component{}
	for _, el := range rc.Elements {
		switch el.Kind {
		case ElementField:
			fields = append(fields, *el.Field)
		case ElementComponent:
			comps = append(comps, *el.Component.Component)
		}
	}
	return fields, comps, nil
}
