package dict

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// ElementKind discriminates resolved composition nodes.
type ElementKind string

const (
	ElementField     ElementKind = "field"
	ElementComponent ElementKind = "component"
)

// ResolvedComponent is a component with its ordered element list expanded
// into navigable nodes. Subtrees are shared: the same component resolved from
// two parents is the same *ResolvedComponent.
type ResolvedComponent struct {
	Component *Component
	Elements  []ResolvedElement
}

// ResolvedElement is one node of a composition tree: either a field leaf or a
// nested component. Link carries the per-reference attributes (required flag,
// indent, position, contextual comment).
type ResolvedElement struct {
	Kind      ElementKind
	Field     *Field
	Component *ResolvedComponent
	Link      MsgContent
}

// Resolver expands component element lists on demand, memoized per component
// id, and owns the reverse usage index. The usage index is built once at
// construction; memoization is guarded by a mutex so resolution stays safe
// under concurrent readers.
type Resolver struct {
	d *Dictionary

	mu   sync.Mutex
	memo map[int]*ResolvedComponent

	fieldParents map[int][]int // field tag -> direct parent component ids
	compParents  map[int][]int // component id -> direct parent component ids
}

func newResolver(d *Dictionary) *Resolver {
	r := &Resolver{
		d:            d,
		memo:         make(map[int]*ResolvedComponent),
		fieldParents: make(map[int][]int),
		compParents:  make(map[int][]int),
	}

	// Reverse usage needs only the flat links, no expansion.
	for _, mc := range d.MsgContents {
		if tag, err := strconv.Atoi(mc.TagText); err == nil {
			if _, ok := d.fieldByTag[tag]; ok {
				r.fieldParents[tag] = appendParent(r.fieldParents[tag], mc.ComponentID)
			}
			continue
		}
		if c, err := d.ComponentByName(mc.TagText); err == nil {
			r.compParents[c.ComponentID] = appendParent(r.compParents[c.ComponentID], mc.ComponentID)
		}
	}
	return r
}

func appendParent(parents []int, id int) []int {
	for _, p := range parents {
		if p == id {
			return parents
		}
	}
	return append(parents, id)
}

// Resolve expands a component into its tree. Repeated calls for the same id
// return the identical memoized subtree.
func (r *Resolver) Resolve(componentID int) (*ResolvedComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(componentID, make(map[int]bool), nil)
}

func (r *Resolver) resolveLocked(id int, expanding map[int]bool, path []int) (*ResolvedComponent, error) {
	if rc, ok := r.memo[id]; ok {
		return rc, nil
	}
	if expanding[id] {
		return nil, &InternalError{
			Version: r.d.Version,
			Op:      "resolve",
			Err:     fmt.Errorf("component cycle detected: %v -> %d", path, id),
		}
	}
	comp, ok := r.d.componentByID[id]
	if !ok {
		// message roots are not Component records; synthesize one so the
		// tree has a uniform shape
		m, isRoot := r.d.messageByComp[id]
		if !isRoot {
			return nil, &NotFoundError{Version: r.d.Version, Entity: "component", Key: itoa(id)}
		}
		comp = &Component{
			ComponentID:   id,
			ComponentType: "Message",
			CategoryID:    m.CategoryID,
			Name:          m.Name,
			AbbrName:      m.AbbrName,
			Description:   m.Description,
			Pedigree:      m.Pedigree,
		}
	}

	expanding[id] = true
	path = append(path, id)

	rc := &ResolvedComponent{Component: comp}
	for _, mc := range r.d.contentsByComp[id] {
		if tag, err := strconv.Atoi(mc.TagText); err == nil {
			f, ok := r.d.fieldByTag[tag]
			if !ok {
				log.Warn().Str("version", r.d.Version).Int("component", id).Int("tag", tag).
					Msg("composition link to unknown field tag, skipping")
				continue
			}
			rc.Elements = append(rc.Elements, ResolvedElement{Kind: ElementField, Field: f, Link: mc})
			continue
		}
		child, ok := r.d.componentByName[strings.ToLower(mc.TagText)]
		if !ok {
			log.Warn().Str("version", r.d.Version).Int("component", id).Str("ref", mc.TagText).
				Msg("composition link to unknown component, skipping")
			continue
		}
		nested, err := r.resolveLocked(child.ComponentID, expanding, path)
		if err != nil {
			return nil, err
		}
		rc.Elements = append(rc.Elements, ResolvedElement{Kind: ElementComponent, Component: nested, Link: mc})
	}

	delete(expanding, id)
	r.memo[id] = rc
	return rc, nil
}

// FlattenLeaves returns every leaf field occurrence of the fully expanded
// tree, depth first, duplicates preserved.
func (r *Resolver) FlattenLeaves(componentID int) ([]*Field, error) {
	rc, err := r.Resolve(componentID)
	if err != nil {
		return nil, err
	}
	var out []*Field
	var walk func(*ResolvedComponent)
	walk = func(node *ResolvedComponent) {
		for _, el := range node.Elements {
			switch el.Kind {
			case ElementField:
				out = append(out, el.Field)
			case ElementComponent:
				walk(el.Component)
			}
		}
	}
	walk(rc)
	return out, nil
}

// Usage is the "where used" view of a field or component: the names of
// messages and components that reference it directly.
type Usage struct {
	Messages   []string `json:"messages"`
	Components []string `json:"components"`
}

// FieldUsage reports the direct parents of a field tag.
func (r *Resolver) FieldUsage(tag int) Usage {
	return r.usage(r.fieldParents[tag])
}

// ComponentUsage reports the direct parents of a component id.
func (r *Resolver) ComponentUsage(id int) Usage {
	return r.usage(r.compParents[id])
}

// FieldParents exposes the raw parent component ids of a field tag.
func (r *Resolver) FieldParents(tag int) []int { return r.fieldParents[tag] }

func (r *Resolver) usage(parents []int) Usage {
	u := Usage{Messages: []string{}, Components: []string{}}
	for _, id := range parents {
		if m, ok := r.d.messageByComp[id]; ok {
			u.Messages = append(u.Messages, m.Name)
			continue
		}
		if c, ok := r.d.componentByID[id]; ok {
			u.Components = append(u.Components, c.Name)
		}
	}
	sort.Strings(u.Messages)
	sort.Strings(u.Components)
	return u
}
