package refspec

import (
	"git-refspec/lib/oid"
)

// NoItem is the ItemIndex of mappings whose source is an object id.
const NoItem = -1

// Item is a reference as seen on the other side.
type Item struct {
	FullRefName string
	Target      oid.ObjectId
	// Tag is the peeled target of an annotated tag, nil otherwise.
	Tag *oid.ObjectId
}

// SourceKind tells whether a mapping's source is a ref name or an object id.
type SourceKind int

const (
	SourceFullName SourceKind = iota
	SourceObjectId
)

// Source is the left-hand side of a mapping.
type Source struct {
	Kind     SourceKind
	ObjectId oid.ObjectId
	FullName string
}

func (s Source) String() string {
	if s.Kind == SourceObjectId {
		return s.ObjectId.String()
	}
	return s.FullName
}

// Mapping is one resolved source to destination pair. Rhs is empty
// when the producing spec has no destination.
type Mapping struct {
	ItemIndex int
	Lhs       Source
	Rhs       string
	SpecIndex int
}

// Item returns the index of the matched item, or false for object id sources.
func (m Mapping) Item() (int, bool) {
	return m.ItemIndex, m.ItemIndex != NoItem
}

// mappingKey is the identity used for deduplication. ItemIndex and
// SpecIndex are not part of it.
type mappingKey struct {
	lhs Source
	rhs string
}

func (m Mapping) key() mappingKey {
	return mappingKey{lhs: m.Lhs, rhs: m.Rhs}
}

// mappings keeps the first mapping seen for each key in insertion order.
type mappings struct {
	out  []Mapping
	seen map[mappingKey]struct{}
}

func (ms *mappings) push(m Mapping) {
	k := m.key()
	if _, ok := ms.seen[k]; ok {
		return
	}
	ms.seen[k] = struct{}{}
	ms.out = append(ms.out, m)
}

func (ms *mappings) retain(keep func(Mapping) bool) {
	kept := ms.out[:0]
	for _, m := range ms.out {
		if keep(m) {
			kept = append(kept, m)
		} else {
			delete(ms.seen, m.key())
		}
	}
	ms.out = kept
}

// MatchGroup holds the specs of one operation in their original order.
type MatchGroup struct {
	Op    Operation
	Specs []RefSpec
}

// NewMatchGroup keeps the specs of op, in order, and drops the rest.
func NewMatchGroup(op Operation, specs []RefSpec) *MatchGroup {
	group := &MatchGroup{Op: op, Specs: []RefSpec{}}
	for _, spec := range specs {
		if spec.Op == op {
			group.Specs = append(group.Specs, spec)
		}
	}
	return group
}

// FromFetchSpecs is NewMatchGroup for fetch specs.
func FromFetchSpecs(specs []RefSpec) *MatchGroup {
	return NewMatchGroup(Fetch, specs)
}

// FromPushSpecs is NewMatchGroup for push specs.
func FromPushSpecs(specs []RefSpec) *MatchGroup {
	return NewMatchGroup(Push, specs)
}

// MatchRemotes matches items against every spec of the group and
// returns the deduplicated mappings. Specs naming an object id map
// without looking at items. Negative specs never produce mappings,
// they only remove name based ones produced by positive specs.
func (g *MatchGroup) MatchRemotes(items []Item) *Outcome {
	result := &mappings{seen: make(map[mappingKey]struct{})}

	matchers := make([]*matcher, len(g.Specs))
	for i, spec := range g.Specs {
		m := newMatcher(spec)
		if m.lhs.kind == needleObject {
			result.push(Mapping{
				ItemIndex: NoItem,
				Lhs:       Source{Kind: SourceObjectId, ObjectId: m.lhs.id},
				Rhs:       spec.Dst,
				SpecIndex: i,
			})
			continue
		}
		matchers[i] = &m
	}

	hasNegation := false
	for specIndex, spec := range g.Specs {
		m := matchers[specIndex]
		for itemIndex, item := range items {
			if spec.Mode == Negative {
				hasNegation = true
				continue
			}
			if m == nil {
				continue
			}
			if matched, rhs := m.matchesLHS(item); matched {
				result.push(Mapping{
					ItemIndex: itemIndex,
					Lhs:       Source{Kind: SourceFullName, FullName: item.FullRefName},
					Rhs:       rhs,
					SpecIndex: specIndex,
				})
			}
		}
	}

	if hasNegation {
		g.removeExcluded(result, oid.Null(items[0].Target.Kind()))
	}

	return &Outcome{
		Group:    g,
		Mappings: result.out,
	}
}

func (g *MatchGroup) removeExcluded(result *mappings, nullId oid.ObjectId) {
	for _, spec := range g.Specs {
		if spec.Mode != Negative {
			continue
		}
		m := newMatcher(spec)
		if m.lhs.kind == needleObject {
			continue
		}
		result.retain(func(mapping Mapping) bool {
			if mapping.Lhs.Kind == SourceObjectId {
				return true
			}
			excluded, _ := m.matchesLHS(Item{
				FullRefName: mapping.Lhs.FullName,
				Target:      nullId,
			})
			return !excluded
		})
	}
}

// SpecByMapping returns the spec that produced mapping.
func (g *MatchGroup) SpecByMapping(mapping Mapping) RefSpec {
	return g.Specs[mapping.SpecIndex]
}

// Outcome is the result of MatchRemotes. It keeps the group so that
// mappings can be traced back to their spec.
type Outcome struct {
	Group    *MatchGroup
	Mappings []Mapping
}

func (o *Outcome) SpecByMapping(mapping Mapping) RefSpec {
	return o.Group.SpecByMapping(mapping)
}
