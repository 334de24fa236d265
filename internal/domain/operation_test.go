package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		token string
		want  Operation
	}{
		{token: "Ver", want: OpVersion},
		{token: "ver", want: OpVersion},
		{token: "NUMVER", want: OpNumericVersion},
		{token: "mvnver", want: OpMavenVersion},
		{token: "flags", want: OpFlags},
		{token: "Hash", want: OpHash},
		{token: "branch", want: OpBranch},
		{token: "DIRT", want: OpDirt},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseOperation(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOperations(t *testing.T) {
	ops, err := ParseOperations(nil)
	require.NoError(t, err)
	assert.Equal(t, []Operation{OpVersion, OpFlags}, ops)

	ops, err = ParseOperations([]string{"hash", "Ver", "hash"})
	require.NoError(t, err)
	assert.Equal(t, []Operation{OpHash, OpVersion, OpHash}, ops)

	_, err = ParseOperations([]string{"ver", "bogus", "?"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Contains(t, err.Error(), "bogus")
}

func TestVersionSnapshot_Render(t *testing.T) {
	lib := DirtyState{Name: "lib", Unstaged: 2}
	dirty := DirtyState{Name: RootUnitName, Untracked: 1, Children: []DirtyState{lib}}
	s, err := NewVersionSnapshot(DefaultPolicy(), "feature-x", "m1.0-5-gDEADBEEF", dirty)
	require.NoError(t, err)

	tests := []struct {
		op   Operation
		want []string
	}{
		{op: OpVersion, want: []string{"1.0.5-feature-x.m.dirty"}},
		{op: OpNumericVersion, want: []string{"1.0.5.155"}},
		{op: OpMavenVersion, want: []string{"1.0-feature-x-SNAPSHOT"}},
		{
			op:   OpFlags,
			want: []string{"Non-release branch, Non-release tagged, Source dirty, Untracked, Submodule dirty"},
		},
		{op: OpHash, want: []string{"DEADBEEF"}},
		{op: OpBranch, want: []string{"feature-x"}},
		{op: OpDirt, want: []string{"1 untracked files", "Submodule 'lib':", " 2 unstaged changes"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, err := s.Render(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionSnapshot_RenderErrors(t *testing.T) {
	s, err := NewVersionSnapshot(DefaultPolicy(), "rel-1.0", "m1.0-5-gabc", DirtyState{Name: RootUnitName})
	require.NoError(t, err)

	_, err = s.Render(OpMavenVersion)
	assert.ErrorIs(t, err, ErrInsaneState)

	_, err = s.Render(Operation("About"))
	assert.ErrorIs(t, err, ErrUnknownOperation)

	lines, err := s.Render(OpDirt)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
