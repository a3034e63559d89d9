package dict

import (
	"sort"
	"strings"
)

// EntityType names a queryable table.
type EntityType string

const (
	EntityMessages   EntityType = "messages"
	EntityFields     EntityType = "fields"
	EntityComponents EntityType = "components"
	EntityCodesets   EntityType = "codesets"
	EntityCategories EntityType = "categories"
)

// FilterOp is a per-column operator.
type FilterOp string

const (
	OpEquals   FilterOp = "equals"
	OpContains FilterOp = "contains"
	OpRange    FilterOp = "range"
)

// Filter is one column condition. Range filters use Min/Max with Has flags so
// half-open ranges work.
type Filter struct {
	Op     FilterOp
	Value  string
	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// Filters maps column name to condition.
type Filters map[string]Filter

// filterVocab declares, per entity type, which columns may be filtered and
// with which operator. Checked at the engine boundary; anything else is a
// ValidationError.
var filterVocab = map[EntityType]map[string]FilterOp{
	EntityMessages: {
		"category": OpEquals,
		"section":  OpEquals,
		"msg_type": OpEquals,
		"name":     OpContains,
	},
	EntityFields: {
		"datatype": OpEquals,
		"tag":      OpRange,
		"name":     OpContains,
	},
	EntityComponents: {
		"category":       OpEquals,
		"component_type": OpEquals,
		"name":           OpContains,
	},
	EntityCodesets: {
		"datatype": OpEquals,
		"name":     OpContains,
	},
	EntityCategories: {
		"section":     OpEquals,
		"category_id": OpContains,
	},
}

var defaultSort = map[EntityType]string{
	EntityMessages:   "name",
	EntityFields:     "tag",
	EntityComponents: "name",
	EntityCodesets:   "tag",
	EntityCategories: "category_id",
}

// ==== Summary row shapes ====

type MessageSummary struct {
	MsgType     string `json:"msg_type"`
	Name        string `json:"name"`
	AbbrName    string `json:"abbr_name,omitempty"`
	ComponentID int    `json:"component_id"`
	CategoryID  string `json:"category_id"`
	SectionID   string `json:"section_id"`
	Description string `json:"description"`
	Pedigree    string `json:"pedigree"`
}

type FieldSummary struct {
	Tag           int    `json:"tag"`
	Name          string `json:"name"`
	AbbrName      string `json:"abbr_name,omitempty"`
	Datatype      string `json:"datatype"`
	UnionDatatype string `json:"union_datatype,omitempty"`
	Description   string `json:"description"`
	Pedigree      string `json:"pedigree"`
}

type ComponentSummary struct {
	ComponentID      int    `json:"component_id"`
	Name             string `json:"name"`
	AbbrName         string `json:"abbr_name,omitempty"`
	CategoryID       string `json:"category_id"`
	ComponentType    string `json:"component_type"`
	IsRepeatingGroup bool   `json:"is_repeating_group"`
	Description      string `json:"description"`
	Pedigree         string `json:"pedigree"`
}

type CodeSetSummary struct {
	Tag         int    `json:"tag"`
	Name        string `json:"name"`
	Datatype    string `json:"base_datatype"`
	Codes       int    `json:"codes"`
	Description string `json:"description"`
	Pedigree    string `json:"pedigree"`
}

// row pairs a response payload with its typed filter/sort cells.
type row struct {
	cells map[string]any
	data  any
}

func (d *Dictionary) rowsFor(entity EntityType) ([]row, error) {
	switch entity {
	case EntityMessages:
		out := make([]row, 0, len(d.Messages))
		for i := range d.Messages {
			m := &d.Messages[i]
			out = append(out, row{
				cells: map[string]any{
					"msg_type":     m.MsgType,
					"name":         m.Name,
					"abbr_name":    m.AbbrName,
					"category":     m.CategoryID,
					"section":      m.SectionID,
					"component_id": m.ComponentID,
				},
				data: MessageSummary{
					MsgType:     m.MsgType,
					Name:        m.Name,
					AbbrName:    m.AbbrName,
					ComponentID: m.ComponentID,
					CategoryID:  m.CategoryID,
					SectionID:   m.SectionID,
					Description: synopsis(m.Description),
					Pedigree:    m.Pedigree.String(),
				},
			})
		}
		return out, nil

	case EntityFields:
		out := make([]row, 0, len(d.Fields))
		for i := range d.Fields {
			f := &d.Fields[i]
			out = append(out, row{
				cells: map[string]any{
					"tag":            f.Tag,
					"name":           f.Name,
					"abbr_name":      f.AbbrName,
					"datatype":       f.Type,
					"union_datatype": f.UnionDataType,
				},
				data: FieldSummary{
					Tag:           f.Tag,
					Name:          f.Name,
					AbbrName:      f.AbbrName,
					Datatype:      f.Type,
					UnionDatatype: f.UnionDataType,
					Description:   synopsis(f.Description),
					Pedigree:      f.Pedigree.String(),
				},
			})
		}
		return out, nil

	case EntityComponents:
		out := make([]row, 0, len(d.Components))
		for i := range d.Components {
			c := &d.Components[i]
			out = append(out, row{
				cells: map[string]any{
					"component_id":   c.ComponentID,
					"name":           c.Name,
					"abbr_name":      c.AbbrName,
					"category":       c.CategoryID,
					"component_type": c.ComponentType,
				},
				data: ComponentSummary{
					ComponentID:      c.ComponentID,
					Name:             c.Name,
					AbbrName:         c.AbbrName,
					CategoryID:       c.CategoryID,
					ComponentType:    c.ComponentType,
					IsRepeatingGroup: c.IsRepeatingGroup(),
					Description:      synopsis(c.Description),
					Pedigree:         c.Pedigree.String(),
				},
			})
		}
		return out, nil

	case EntityCodesets:
		// a code set is a field that owns enum values
		var out []row
		for i := range d.Fields {
			f := &d.Fields[i]
			codes := d.enumsByTag[f.Tag]
			if len(codes) == 0 {
				continue
			}
			out = append(out, row{
				cells: map[string]any{
					"tag":      f.Tag,
					"name":     f.Name,
					"datatype": f.Type,
					"codes":    len(codes),
				},
				data: CodeSetSummary{
					Tag:         f.Tag,
					Name:        f.Name,
					Datatype:    f.Type,
					Codes:       len(codes),
					Description: synopsis(f.Description),
					Pedigree:    f.Pedigree.String(),
				},
			})
		}
		return out, nil

	case EntityCategories:
		out := make([]row, 0, len(d.Categories))
		for i := range d.Categories {
			c := &d.Categories[i]
			out = append(out, row{
				cells: map[string]any{
					"category_id":    c.CategoryID,
					"component_type": c.ComponentType,
					"section":        c.SectionID,
				},
				data: *c,
			})
		}
		return out, nil
	}
	return nil, invalidf("entity", "unknown entity type %q", entity)
}

// Query filters, sorts and windows one entity table. total_count is the
// filtered count before the window slice.
func (d *Dictionary) Query(entity EntityType, filters Filters, sortBy, sortDir string, offset, limit int) ([]any, int, error) {
	rows, err := d.rowsFor(entity)
	if err != nil {
		return nil, 0, err
	}

	vocab := filterVocab[entity]
	for col, f := range filters {
		allowed, ok := vocab[col]
		if !ok {
			return nil, 0, invalidf("filter", "column %q is not filterable for %s", col, entity)
		}
		if f.Op != allowed {
			return nil, 0, invalidf("filter", "operator %q not supported for %s.%s (want %q)", f.Op, entity, col, allowed)
		}
	}

	filtered := rows[:0:0]
	for _, r := range rows {
		if matchFilters(r, filters) {
			filtered = append(filtered, r)
		}
	}

	if sortBy == "" {
		sortBy = defaultSort[entity]
	}
	if _, ok := rowSlice(rows).sortable(sortBy); !ok {
		return nil, 0, invalidf("sort_by", "unknown sort column %q for %s", sortBy, entity)
	}
	desc := false
	switch strings.ToLower(sortDir) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, 0, invalidf("sort_dir", "must be asc or desc, got %q", sortDir)
	}
	sortRows(filtered, sortBy, desc)

	total := len(filtered)
	if offset < 0 {
		return nil, 0, invalidf("offset", "must not be negative")
	}
	if limit < 0 {
		return nil, 0, invalidf("limit", "must not be negative")
	}
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]any, 0, end-start)
	for _, r := range filtered[start:end] {
		out = append(out, r.data)
	}
	return out, total, nil
}

func matchFilters(r row, filters Filters) bool {
	for col, f := range filters {
		got := r.cells[col]
		switch f.Op {
		case OpEquals:
			if !strings.EqualFold(cellString(got), f.Value) {
				return false
			}
		case OpContains:
			if !strings.Contains(strings.ToLower(cellString(got)), strings.ToLower(f.Value)) {
				return false
			}
		case OpRange:
			n, ok := got.(int)
			if !ok {
				return false
			}
			if f.HasMin && n < f.Min {
				return false
			}
			if f.HasMax && n > f.Max {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ==== Sorting ====

type rowSlice []row

func (rs rowSlice) sortable(col string) (any, bool) {
	if len(rs) == 0 {
		return nil, true
	}
	v, ok := rs[0].cells[col]
	return v, ok
}

func sortRows(rs []row, col string, desc bool) {
	sort.SliceStable(rs, func(i, j int) bool {
		c := compareCells(rs[i].cells[col], rs[j].cells[col])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareCells(a, b any) int {
	if ai, ok := a.(int); ok {
		if bi, ok := b.(int); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	sa := strings.ToLower(cellString(a))
	sb := strings.ToLower(cellString(b))
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return itoa(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return ""
}

// ==== Page-based envelope ====

// PageResult is the paginated envelope consumed by the HTTP layer.
type PageResult struct {
	Data        []any `json:"data"`
	TotalCount  int   `json:"total_count"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

const maxPageSize = 500

// QueryPage windows by 1-based page number and page size.
func (d *Dictionary) QueryPage(entity EntityType, filters Filters, sortBy, sortDir string, page, pageSize int) (*PageResult, error) {
	if page < 1 {
		return nil, invalidf("page", "must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, invalidf("page_size", "must be 1..%d, got %d", maxPageSize, pageSize)
	}
	data, total, err := d.Query(entity, filters, sortBy, sortDir, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &PageResult{
		Data:        data,
		TotalCount:  total,
		Page:        page,
		PageSize:    pageSize,
		HasNext:     page*pageSize < total,
		HasPrevious: page > 1,
	}, nil
}
