package dict

import "strings"

// The row-model request mirrors the grid's server-side protocol: the data
// source computes the visible window, sort, filter and one grouping level per
// request.

type SortModelItem struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"`
}

// GridFilter is one column of the grid filter model (community text/number
// filter shapes).
type GridFilter struct {
	FilterType string   `json:"filterType"` // "text" | "number"
	Type       string   `json:"type"`       // "contains" | "equals" | "inRange"
	Filter     any      `json:"filter"`
	FilterTo   *float64 `json:"filterTo,omitempty"`
}

type GetRowsRequest struct {
	StartRow    int                   `json:"startRow"`
	EndRow      int                   `json:"endRow"`
	SortModel   []SortModelItem       `json:"sortModel"`
	FilterModel map[string]GridFilter `json:"filterModel"`
	GroupKeys   []string              `json:"groupKeys"`
}

type RowResult struct {
	RowData  []any `json:"rowData"`
	RowCount int   `json:"rowCount"`
}

// CompositionRow is one level-row of the hierarchical message composition
// view. Nested components are group rows (expandable, no tag); fields are
// leaves carrying their tag.
type CompositionRow struct {
	Group         bool    `json:"group"`
	Tag           int     `json:"tag,omitempty"`
	Name          string  `json:"name"`
	AbbrName      string  `json:"abbr_name,omitempty"`
	Datatype      string  `json:"datatype,omitempty"`
	ComponentType string  `json:"component_type,omitempty"`
	Required      bool    `json:"required"`
	Indent        int     `json:"indent"`
	Position      float64 `json:"position"`
	Description   string  `json:"description,omitempty"`
}

// GridEntity names addressable grid views: the flat entity tables plus the
// hierarchical "composition" view.
const GridComposition = "composition"

var gridEntities = map[string]EntityType{
	"messages":   EntityMessages,
	"fields":     EntityFields,
	"components": EntityComponents,
	"codesets":   EntityCodesets,
	"categories": EntityCategories,
}

// GetRows serves one server-driven row model request. rowCount is the total
// matching row count for flat views, and the direct child count of the
// requested level for the composition view.
func (d *Dictionary) GetRows(entity string, req GetRowsRequest) (*RowResult, error) {
	if req.StartRow < 0 || req.EndRow < req.StartRow {
		return nil, invalidf("startRow/endRow", "bad row window [%d,%d)", req.StartRow, req.EndRow)
	}

	if entity == GridComposition {
		return d.compositionRows(req)
	}

	et, ok := gridEntities[entity]
	if !ok {
		return nil, invalidf("entity", "unknown grid entity %q", entity)
	}
	if len(req.GroupKeys) > 0 {
		return nil, invalidf("groupKeys", "entity %q is flat, got group keys %v", entity, req.GroupKeys)
	}

	filters, err := translateFilterModel(req.FilterModel)
	if err != nil {
		return nil, err
	}
	sortBy, sortDir := "", ""
	if len(req.SortModel) > 0 {
		sortBy, sortDir = req.SortModel[0].ColID, req.SortModel[0].Sort
	}

	data, total, err := d.Query(et, filters, sortBy, sortDir, req.StartRow, req.EndRow-req.StartRow)
	if err != nil {
		return nil, err
	}
	return &RowResult{RowData: data, RowCount: total}, nil
}

// compositionRows resolves exactly one level of a message's composition tree:
// groupKeys = [msgType, nestedComponentName, ...].
func (d *Dictionary) compositionRows(req GetRowsRequest) (*RowResult, error) {
	if len(req.GroupKeys) == 0 {
		return nil, invalidf("groupKeys", "composition requests need at least the message type")
	}

	msg, err := d.MessageByType(req.GroupKeys[0])
	if err != nil {
		return nil, err
	}
	node, err := d.resolver.Resolve(msg.ComponentID)
	if err != nil {
		return nil, err
	}
	for _, key := range req.GroupKeys[1:] {
		next, ok := childComponent(node, key)
		if !ok {
			return nil, &NotFoundError{Version: d.Version, Entity: "component", Key: key}
		}
		node = next
	}

	rows := make([]any, 0, len(node.Elements))
	for _, el := range node.Elements {
		switch el.Kind {
		case ElementField:
			rows = append(rows, CompositionRow{
				Tag:         el.Field.Tag,
				Name:        el.Field.Name,
				AbbrName:    el.Field.AbbrName,
				Datatype:    el.Field.Type,
				Required:    el.Link.Reqd,
				Indent:      el.Link.Indent,
				Position:    el.Link.Position,
				Description: el.Link.Description,
			})
		case ElementComponent:
			rows = append(rows, CompositionRow{
				Group:         true,
				Name:          el.Component.Component.Name,
				AbbrName:      el.Component.Component.AbbrName,
				ComponentType: el.Component.Component.ComponentType,
				Required:      el.Link.Reqd,
				Indent:        el.Link.Indent,
				Position:      el.Link.Position,
				Description:   el.Link.Description,
			})
		}
	}

	total := len(rows)
	start, end := req.StartRow, req.EndRow
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return &RowResult{RowData: rows[start:end], RowCount: total}, nil
}

func childComponent(node *ResolvedComponent, name string) (*ResolvedComponent, bool) {
	for _, el := range node.Elements {
		if el.Kind == ElementComponent && strings.EqualFold(el.Component.Component.Name, name) {
			return el.Component, true
		}
	}
	return nil, false
}

// translateFilterModel maps grid filter shapes onto the engine vocabulary.
func translateFilterModel(model map[string]GridFilter) (Filters, error) {
	if len(model) == 0 {
		return nil, nil
	}
	out := make(Filters, len(model))
	for col, gf := range model {
		switch gf.FilterType {
		case "text":
			val, _ := gf.Filter.(string)
			switch gf.Type {
			case "contains":
				out[col] = Filter{Op: OpContains, Value: val}
			case "equals":
				out[col] = Filter{Op: OpEquals, Value: val}
			default:
				return nil, invalidf("filterModel", "unsupported text filter %q on column %q", gf.Type, col)
			}
		case "number":
			if gf.Type != "inRange" && gf.Type != "equals" {
				return nil, invalidf("filterModel", "unsupported number filter %q on column %q", gf.Type, col)
			}
			f := Filter{Op: OpRange}
			if n, ok := gf.Filter.(float64); ok {
				f.Min, f.HasMin = int(n), true
			}
			if gf.Type == "equals" {
				f.Max, f.HasMax = f.Min, f.HasMin
			} else if gf.FilterTo != nil {
				f.Max, f.HasMax = int(*gf.FilterTo), true
			}
			out[col] = f
		default:
			return nil, invalidf("filterModel", "unsupported filter type %q on column %q", gf.FilterType, col)
		}
	}
	return out, nil
}
