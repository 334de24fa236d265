package domain

import (
	"fmt"
	"iter"
	"strings"
)

// DirtyState is the aggregated dirtiness of a repository unit and the dirty
// subset of its nested units. Values are built bottom-up by AggregateDirtyState.
type DirtyState struct {
	// Name identifies the unit; the root is named ".".
	Name string

	// Untracked, Unstaged and Uncommitted are the unit's effective counters.
	// Unstaged excludes the paths of dirty nested units.
	Untracked   int
	Unstaged    int
	Uncommitted int

	// Children holds only the nested units that are themselves dirty.
	Children []DirtyState
}

// AggregateDirtyState combines a unit's raw counters with its already
// aggregated nested units. Clean nested units are dropped. Every dirty nested
// unit appears in the parent's diff as one modified path, so it is removed
// from the parent's unstaged count.
//
// Returns ErrInconsistentDirtyState if a counter is negative or the
// correction would drive the unstaged count below zero.
func AggregateDirtyState(name string, counts DirtyCounts, nested ...DirtyState) (DirtyState, error) {
	if counts.Untracked < 0 || counts.Unstaged < 0 || counts.Uncommitted < 0 {
		return DirtyState{}, fmt.Errorf("%w: unit '%s' has negative counters %+v",
			ErrInconsistentDirtyState, name, counts)
	}

	state := DirtyState{
		Name:        name,
		Untracked:   counts.Untracked,
		Unstaged:    counts.Unstaged,
		Uncommitted: counts.Uncommitted,
	}
	for _, child := range nested {
		if !child.IsDirty() {
			continue
		}
		state.Children = append(state.Children, child)
		state.Unstaged--
	}

	if state.Unstaged < 0 {
		return DirtyState{}, fmt.Errorf(
			"%w: unit '%s' reports %d unstaged changes but has %d dirty nested units",
			ErrInconsistentDirtyState, name, counts.Unstaged, len(state.Children),
		)
	}
	return state, nil
}

// IsDirty reports whether the unit or any retained nested unit has changes.
func (d DirtyState) IsDirty() bool {
	return d.Untracked+d.Unstaged+d.Uncommitted+len(d.Children) > 0
}

// Clone returns a deep copy of the tree.
func (d DirtyState) Clone() DirtyState {
	out := d
	if d.Children != nil {
		out.Children = make([]DirtyState, len(d.Children))
		for i, child := range d.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Report returns the indented dirty-tree listing. Lines are formatted on
// demand; only non-zero counters and dirty nested units are listed.
func (d DirtyState) Report() iter.Seq[string] {
	return func(yield func(string) bool) {
		d.report(0, yield)
	}
}

func (d DirtyState) report(level int, yield func(string) bool) bool {
	indent := strings.Repeat(" ", level)
	if d.Untracked > 0 && !yield(fmt.Sprintf("%s%d untracked files", indent, d.Untracked)) {
		return false
	}
	if d.Unstaged > 0 && !yield(fmt.Sprintf("%s%d unstaged changes", indent, d.Unstaged)) {
		return false
	}
	if d.Uncommitted > 0 && !yield(fmt.Sprintf("%s%d uncommitted changes", indent, d.Uncommitted)) {
		return false
	}
	for _, child := range d.Children {
		if !yield(fmt.Sprintf("%sSubmodule '%s':", indent, child.Name)) {
			return false
		}
		if !child.report(level+1, yield) {
			return false
		}
	}
	return true
}
