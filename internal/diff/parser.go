// Package diff holds the structured diff model, the unified-diff parser,
// and the alignment engine that lays hunks out for display.
package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	diffHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	renameFromRe = regexp.MustCompile(`^rename from (.+)$`)
	renameToRe   = regexp.MustCompile(`^rename to (.+)$`)
	binaryRe     = regexp.MustCompile(`^Binary files (.+) and (.+) differ$`)
)

// Parse parses unified diff text into one FileDiff per touched file.
func Parse(input string) ([]FileDiff, error) {
	if input == "" {
		return nil, nil
	}

	lines := strings.Split(input, "\n")
	var files []FileDiff
	i := 0

	for i < len(lines) {
		m := diffHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		file := FileDiff{
			OldPath: m[1],
			NewPath: m[2],
		}
		i++

		// Extended header lines up to ---/+++, a hunk, a binary marker,
		// or the next diff header.
		for i < len(lines) {
			line := lines[i]

			if strings.HasPrefix(line, "diff --git ") {
				break
			}

			if rm := renameFromRe.FindStringSubmatch(line); rm != nil {
				file.OldPath = rm[1]
				file.Status = "renamed"
				i++
				continue
			}
			if rm := renameToRe.FindStringSubmatch(line); rm != nil {
				file.NewPath = rm[1]
				file.Status = "renamed"
				i++
				continue
			}

			if bm := binaryRe.FindStringSubmatch(line); bm != nil {
				file.IsBinary = true
				file.OldPath = sidePath(bm[1])
				file.NewPath = sidePath(bm[2])
				i++
				break
			}

			if strings.HasPrefix(line, "--- ") {
				file.OldPath = sidePath(line[4:])
				i++
				if i < len(lines) && strings.HasPrefix(lines[i], "+++ ") {
					file.NewPath = sidePath(lines[i][4:])
					i++
				}
				break
			}

			if strings.HasPrefix(line, "@@ ") {
				// No ---/+++ lines, straight to hunks.
				break
			}

			i++
		}

		for i < len(lines) {
			if strings.HasPrefix(lines[i], "diff --git ") {
				break
			}

			hm := hunkHeaderRe.FindStringSubmatch(lines[i])
			if hm == nil {
				i++
				continue
			}

			hunk, err := parseHunk(hm, lines, &i)
			if err != nil {
				return nil, err
			}
			file.Hunks = append(file.Hunks, hunk)
		}

		if file.Status == "" {
			switch {
			case file.OldPath == "":
				file.Status = "added"
			case file.NewPath == "":
				file.Status = "deleted"
			default:
				file.Status = "modified"
			}
		}

		files = append(files, file)
	}

	return files, nil
}

// sidePath extracts the file path from one side of a diff header.
// "/dev/null" becomes empty (the file does not exist on that side);
// the a/ or b/ prefix is stripped.
func sidePath(s string) string {
	s = strings.TrimSpace(s)
	if s == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}

// parseHunk parses a single hunk starting at the @@ header line.
// It advances i past all lines belonging to this hunk.
func parseHunk(hm []string, lines []string, i *int) (Hunk, error) {
	oldStart, err := strconv.Atoi(hm[1])
	if err != nil {
		return Hunk{}, fmt.Errorf("invalid old start: %w", err)
	}
	oldLines := 1
	if hm[2] != "" {
		oldLines, err = strconv.Atoi(hm[2])
		if err != nil {
			return Hunk{}, fmt.Errorf("invalid old lines: %w", err)
		}
	}
	newStart, err := strconv.Atoi(hm[3])
	if err != nil {
		return Hunk{}, fmt.Errorf("invalid new start: %w", err)
	}
	newLines := 1
	if hm[4] != "" {
		newLines, err = strconv.Atoi(hm[4])
		if err != nil {
			return Hunk{}, fmt.Errorf("invalid new lines: %w", err)
		}
	}

	header := "@@ -" + hm[1]
	if hm[2] != "" {
		header += "," + hm[2]
	}
	header += " +" + hm[3]
	if hm[4] != "" {
		header += "," + hm[4]
	}
	header += " @@"
	if funcCtx := strings.TrimSpace(hm[5]); funcCtx != "" {
		header += " " + funcCtx
	}

	hunk := Hunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
		Header:   header,
	}

	oldNum := oldStart
	newNum := newStart
	*i++ // advance past @@ line

loop:
	for *i < len(lines) {
		line := lines[*i]

		if strings.HasPrefix(line, "@@ ") || strings.HasPrefix(line, "diff --git ") {
			break
		}

		if strings.HasPrefix(line, `\ No newline at end of file`) {
			*i++
			continue
		}

		if len(line) == 0 {
			// Empty line in diff output: either end of input or a
			// context line with empty content. Treat as end of hunk.
			*i++
			break
		}

		prefix := line[0]
		content := line[1:]

		switch prefix {
		case ' ':
			hunk.Lines = append(hunk.Lines, Line{
				Type:    LineContext,
				Content: content,
				OldNum:  oldNum,
				NewNum:  newNum,
			})
			oldNum++
			newNum++
		case '+':
			hunk.Lines = append(hunk.Lines, Line{
				Type:    LineAddition,
				Content: content,
				NewNum:  newNum,
			})
			newNum++
		case '-':
			hunk.Lines = append(hunk.Lines, Line{
				Type:    LineDeletion,
				Content: content,
				OldNum:  oldNum,
			})
			oldNum++
		default:
			// Unknown prefix, likely end of hunk.
			break loop
		}

		*i++
	}

	return hunk, nil
}
