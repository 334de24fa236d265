package domain

// RootUnitName is the conventional name and path of the top-level repository unit.
const RootUnitName = "."

// DirtyCounts holds the raw working-tree counters of a single repository unit.
type DirtyCounts struct {
	// Untracked is the number of untracked, non-ignored files.
	Untracked int

	// Unstaged is the number of paths whose working tree differs from the index.
	// A dirty nested repository counts as one such path.
	Unstaged int

	// Uncommitted is the number of paths whose index differs from HEAD.
	Uncommitted int
}

// NestedUnit identifies a repository nested inside another unit (a submodule).
type NestedUnit struct {
	// Name is the label used in reports.
	Name string

	// Path is the unit location relative to the root repository.
	Path string
}

// UnitStatus is what a RepositoryStateReader reports for one unit.
type UnitStatus struct {
	// Counts are the unit's own raw counters.
	Counts DirtyCounts

	// Nested lists the direct nested units, in repository order.
	Nested []NestedUnit
}

// TagDescriptor is the parsed form of a long tag description.
// Values are only produced by ParseTagDescription and never modified.
type TagDescriptor struct {
	// Prefix is the single-character tag prefix, e.g. "v" or "m".
	Prefix string

	// Major and Minor are the version numbers carried by the tag.
	Major int
	Minor int

	// Extension is the free-form suffix of the minor version including its
	// leading dash. Always empty for release-tagged descriptors.
	Extension string

	// CommitsSinceTag is the first-parent distance from the tag to HEAD.
	CommitsSinceTag int

	// Hashcode is the commit identifier of HEAD.
	Hashcode string
}
