package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func modifiedFile(hunks ...Hunk) FileDiff {
	return FileDiff{
		OldPath: "f.txt",
		NewPath: "f.txt",
		Status:  "modified",
		Hunks:   hunks,
	}
}

func TestUnifiedRows_PreservesOrderAcrossHunks(t *testing.T) {
	f := modifiedFile(
		Hunk{Lines: []Line{
			{Type: LineContext, Content: "a", OldNum: 1, NewNum: 1},
			{Type: LineDeletion, Content: "b", OldNum: 2},
			{Type: LineAddition, Content: "B", NewNum: 2},
		}},
		Hunk{Lines: []Line{
			{Type: LineContext, Content: "x", OldNum: 10, NewNum: 10},
			{Type: LineAddition, Content: "y", NewNum: 11},
		}},
	)

	rows, err := UnifiedRows(f)
	require.NoError(t, err)
	require.Equal(t, []UnifiedRow{
		{Content: "a", Type: LineContext, OldNum: 1, NewNum: 1},
		{Content: "b", Type: LineDeletion, OldNum: 2},
		{Content: "B", Type: LineAddition, NewNum: 2},
		{Content: "x", Type: LineContext, OldNum: 10, NewNum: 10},
		{Content: "y", Type: LineAddition, NewNum: 11},
	}, rows)
}

func TestUnifiedRows_LengthEqualsTotalLineCount(t *testing.T) {
	f := modifiedFile(
		Hunk{Lines: []Line{
			{Type: LineContext, Content: "a", OldNum: 1, NewNum: 1},
			{Type: LineDeletion, Content: "b", OldNum: 2},
		}},
		Hunk{Lines: []Line{
			{Type: LineAddition, Content: "c", NewNum: 5},
		}},
	)

	rows, err := UnifiedRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestSplitRows_PairsDeletionWithAdditionAroundContext(t *testing.T) {
	// The classic replaced-line case: a deletion/addition run of length
	// one each must land in a single paired row, not two one-sided rows.
	f := modifiedFile(Hunk{Lines: []Line{
		{Type: LineContext, Content: "a", OldNum: 1, NewNum: 1},
		{Type: LineDeletion, Content: "b", OldNum: 2},
		{Type: LineAddition, Content: "c", NewNum: 2},
	}})

	rows, err := SplitRows(f)
	require.NoError(t, err)
	require.Equal(t, []SplitRow{
		{Left: &Cell{Content: "a", Num: 1}, Right: &Cell{Content: "a", Num: 1}},
		{Left: &Cell{Content: "b", Num: 2}, Right: &Cell{Content: "c", Num: 2}},
	}, rows)
}

func TestSplitRows_UnequalRunsSpillOneSided(t *testing.T) {
	tests := []struct {
		name      string
		deletions int
		additions int
	}{
		{"more deletions", 3, 1},
		{"more additions", 1, 4},
		{"equal runs", 2, 2},
		{"deletions only", 3, 0},
		{"additions only", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []Line
			for i := 0; i < tt.deletions; i++ {
				lines = append(lines, Line{Type: LineDeletion, Content: "d", OldNum: i + 1})
			}
			for i := 0; i < tt.additions; i++ {
				lines = append(lines, Line{Type: LineAddition, Content: "a", NewNum: i + 1})
			}
			f := modifiedFile(Hunk{Lines: lines})

			rows, err := SplitRows(f)
			require.NoError(t, err)

			want := max(tt.deletions, tt.additions)
			require.Len(t, rows, want)

			paired := min(tt.deletions, tt.additions)
			for i, row := range rows {
				if i < paired {
					require.NotNil(t, row.Left, "row %d should have a left cell", i)
					require.NotNil(t, row.Right, "row %d should have a right cell", i)
				} else if tt.deletions > tt.additions {
					require.NotNil(t, row.Left, "row %d should have a left cell", i)
					require.Nil(t, row.Right, "row %d should be deletion-only", i)
				} else {
					require.Nil(t, row.Left, "row %d should be addition-only", i)
					require.NotNil(t, row.Right, "row %d should have a right cell", i)
				}
			}
		})
	}
}

func TestSplitRows_FlushesTrailingRunAtHunkEnd(t *testing.T) {
	// A hunk ending on a deletion/addition run with no closing context
	// line must still emit the paired rows.
	f := modifiedFile(Hunk{Lines: []Line{
		{Type: LineContext, Content: "keep", OldNum: 1, NewNum: 1},
		{Type: LineDeletion, Content: "old1", OldNum: 2},
		{Type: LineDeletion, Content: "old2", OldNum: 3},
		{Type: LineAddition, Content: "new1", NewNum: 2},
	}})

	rows, err := SplitRows(f)
	require.NoError(t, err)
	require.Equal(t, []SplitRow{
		{Left: &Cell{Content: "keep", Num: 1}, Right: &Cell{Content: "keep", Num: 1}},
		{Left: &Cell{Content: "old1", Num: 2}, Right: &Cell{Content: "new1", Num: 2}},
		{Left: &Cell{Content: "old2", Num: 3}},
	}, rows)
}

func TestSplitRows_RunsDoNotPairAcrossHunks(t *testing.T) {
	f := modifiedFile(
		Hunk{Lines: []Line{{Type: LineDeletion, Content: "gone", OldNum: 1}}},
		Hunk{Lines: []Line{{Type: LineAddition, Content: "here", NewNum: 9}}},
	)

	rows, err := SplitRows(f)
	require.NoError(t, err)
	require.Equal(t, []SplitRow{
		{Left: &Cell{Content: "gone", Num: 1}},
		{Right: &Cell{Content: "here", Num: 9}},
	}, rows)
}

func TestRows_BinaryYieldsNoRows(t *testing.T) {
	f := FileDiff{
		OldPath:  "image.png",
		NewPath:  "image.png",
		Status:   "modified",
		IsBinary: true,
		// Hunks must be ignored even when present.
		Hunks: []Hunk{{Lines: []Line{{Type: LineAddition, Content: "garbage", NewNum: 1}}}},
	}

	unified, err := UnifiedRows(f)
	require.NoError(t, err)
	require.Empty(t, unified)

	split, err := SplitRows(f)
	require.NoError(t, err)
	require.Empty(t, split)
}

func TestRows_Deterministic(t *testing.T) {
	f := modifiedFile(Hunk{Lines: []Line{
		{Type: LineContext, Content: "a", OldNum: 1, NewNum: 1},
		{Type: LineDeletion, Content: "b", OldNum: 2},
		{Type: LineAddition, Content: "c", NewNum: 2},
		{Type: LineAddition, Content: "d", NewNum: 3},
	}})

	u1, err := UnifiedRows(f)
	require.NoError(t, err)
	u2, err := UnifiedRows(f)
	require.NoError(t, err)
	require.Equal(t, u1, u2)

	s1, err := SplitRows(f)
	require.NoError(t, err)
	s2, err := SplitRows(f)
	require.NoError(t, err)
	require.Equal(t, s1, s2)
}

func TestRows_MalformedDiffRefused(t *testing.T) {
	tests := []struct {
		name string
		file FileDiff
	}{
		{
			name: "no path on either side",
			file: FileDiff{Status: "modified"},
		},
		{
			name: "context line missing new number",
			file: modifiedFile(Hunk{Lines: []Line{
				{Type: LineContext, Content: "a", OldNum: 1},
			}}),
		},
		{
			name: "addition carrying an old number",
			file: modifiedFile(Hunk{Lines: []Line{
				{Type: LineAddition, Content: "a", OldNum: 1, NewNum: 1},
			}}),
		},
		{
			name: "deletion carrying a new number",
			file: modifiedFile(Hunk{Lines: []Line{
				{Type: LineDeletion, Content: "a", OldNum: 1, NewNum: 1},
			}}),
		},
		{
			name: "unknown line type",
			file: modifiedFile(Hunk{Lines: []Line{
				{Type: "hunkheader", Content: "a"},
			}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnifiedRows(tt.file)
			require.ErrorIs(t, err, ErrMalformed)

			_, err = SplitRows(tt.file)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}
