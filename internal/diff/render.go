package diff

// UnifiedRow is one renderable line of the unified (single-column) view.
type UnifiedRow struct {
	Content string
	Type    LineType
	OldNum  int
	NewNum  int
}

// Cell is one side of a split-view row.
type Cell struct {
	Content string
	Num     int
}

// SplitRow is one renderable line of the split (two-column) view. Either
// side may be nil: a deletion with no paired addition has only Left, an
// addition with no paired deletion only Right.
type SplitRow struct {
	Left  *Cell
	Right *Cell
}

// UnifiedRows maps a FileDiff 1:1 onto unified view rows, preserving
// file order across hunks. Binary diffs yield no rows; callers check
// IsBinary to pick the binary-file notice instead.
func UnifiedRows(f FileDiff) ([]UnifiedRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsBinary {
		return nil, nil
	}
	var rows []UnifiedRow
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			rows = append(rows, UnifiedRow{
				Content: l.Content,
				Type:    l.Type,
				OldNum:  l.OldNum,
				NewNum:  l.NewNum,
			})
		}
	}
	return rows, nil
}

// SplitRows aligns a FileDiff into side-by-side row pairs. Within each
// hunk, consecutive deletion and addition runs are paired positionally:
// the i-th deletion of a run lands in the same row as the i-th addition,
// and whichever run is longer spills into one-sided rows. Runs are
// flushed at every context line and at the end of the hunk, so trailing
// changes with no closing context still pair up. Binary diffs yield no
// rows.
func SplitRows(f FileDiff) ([]SplitRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsBinary {
		return nil, nil
	}
	var rows []SplitRow
	for _, h := range f.Hunks {
		var dels, adds []Cell

		flush := func() {
			for i := 0; i < len(dels) || i < len(adds); i++ {
				var row SplitRow
				if i < len(dels) {
					c := dels[i]
					row.Left = &c
				}
				if i < len(adds) {
					c := adds[i]
					row.Right = &c
				}
				rows = append(rows, row)
			}
			dels, adds = nil, nil
		}

		for _, l := range h.Lines {
			switch l.Type {
			case LineDeletion:
				dels = append(dels, Cell{Content: l.Content, Num: l.OldNum})
			case LineAddition:
				adds = append(adds, Cell{Content: l.Content, Num: l.NewNum})
			case LineContext:
				flush()
				rows = append(rows, SplitRow{
					Left:  &Cell{Content: l.Content, Num: l.OldNum},
					Right: &Cell{Content: l.Content, Num: l.NewNum},
				})
			}
		}
		flush()
	}
	return rows, nil
}
