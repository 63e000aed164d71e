package ot

import (
	"iter"
)

// LookupTable is the typed model of one lookup of a lookup list.
type LookupTable struct {
	Type             LayoutTableLookupType
	Flag             LayoutTableLookupFlag
	MarkFilteringSet uint16 // only meaningful if Flag has LOOKUP_FLAG_USE_MARK_FILTERING_SET
	Subtables        []*LookupNode
}

// LookupNode is a lookup-subtable node with shared metadata and a typed payload.
// For mark attachment subtables, Coverage is the mark coverage.
type LookupNode struct {
	LookupType LayoutTableLookupType `xml:"LookupType,attr"`
	Format     uint16                `xml:"Format,attr"`
	Coverage   Coverage              `xml:"Coverage"`
	GPos       GPosLookupPayload     `xml:"Payload"`
}

// SubTableCount returns the number of subtables of a lookup.
func (lt *LookupTable) SubTableCount() int {
	if lt == nil {
		return 0
	}
	return len(lt.Subtables)
}

// Subtable returns the subtable at index i, or nil if out of range.
func (lt *LookupTable) Subtable(i int) *LookupNode {
	if lt == nil || i < 0 || i >= len(lt.Subtables) {
		return nil
	}
	return lt.Subtables[i]
}

// Range iterates subtables in declaration order.
func (lt *LookupTable) Range() iter.Seq2[int, *LookupNode] {
	return func(yield func(int, *LookupNode) bool) {
		if lt == nil {
			return
		}
		for i, node := range lt.Subtables {
			if !yield(i, node) {
				return
			}
		}
	}
}

// EffectiveType returns the lookup type of a lookup, looking through extension
// subtables. The type wrapped by the first subtable is decisive.
func (lt *LookupTable) EffectiveType() LayoutTableLookupType {
	if lt == nil {
		return 0
	}
	if lt.Type != GPosLookupTypeExtensionPos {
		return lt.Type
	}
	if node := lt.Subtable(0); node != nil && node.GPos.ExtensionFmt1 != nil {
		return node.GPos.ExtensionFmt1.WrappedType()
	}
	return lt.Type
}

// Dependencies returns the indices of lookups invoked by a contextual lookup,
// in order of first appearance. Non-contextual lookups have no dependencies.
func (lt *LookupTable) Dependencies() []int {
	if lt == nil || !lt.EffectiveType().IsContextual() {
		return nil
	}
	var deps []int
	seen := make(map[int]bool)
	for _, node := range lt.Range() {
		if node == nil {
			continue
		}
		for _, rec := range node.GPos.SequenceLookupRecords() {
			inx := int(rec.LookupListIndex)
			if !seen[inx] {
				seen[inx] = true
				deps = append(deps, inx)
			}
		}
	}
	return deps
}

// Unwrap returns the subtable wrapped by an extension node, or the node itself
// for non-extension nodes.
func (node *LookupNode) Unwrap() *LookupNode {
	for node != nil && node.GPos.ExtensionFmt1 != nil {
		node = node.GPos.ExtensionFmt1.Resolved
	}
	return node
}
