// Package diff computes line-oriented differences between the current
// destination file and freshly fetched content, for confirmation previews.
package diff

import "strings"

// LineType indicates the type of a diff line.
type LineType string

const (
	// LineContext is an unchanged line.
	LineContext LineType = " "

	// LineAdded is a line present only in the incoming content.
	LineAdded LineType = "+"

	// LineRemoved is a line present only in the current file.
	LineRemoved LineType = "-"
)

// Line represents a single line in a diff.
type Line struct {
	// Type indicates if this line is added, removed, or unchanged.
	Type LineType

	// Content is the actual line content.
	Content string
}

// String returns the line with its diff prefix.
func (l Line) String() string {
	return string(l.Type) + l.Content
}

// Hunk represents a contiguous block of changes.
type Hunk struct {
	// OldStart is the starting line number in the current file.
	OldStart int

	// OldCount is the number of current-file lines in the hunk.
	OldCount int

	// NewStart is the starting line number in the incoming content.
	NewStart int

	// NewCount is the number of incoming lines in the hunk.
	NewCount int

	// Lines contains the diff lines with prefixes (+, -, space).
	Lines []Line
}

// Compute diffs the current file content against incoming content and
// returns the changed hunks. Identical inputs yield no hunks. The diff is
// guided by a longest-common-subsequence walk over lines.
func Compute(current, incoming string) []Hunk {
	if current == incoming {
		return nil
	}
	return computeLines(strings.Split(current, "\n"), strings.Split(incoming, "\n"))
}

// Creation returns the hunks for a file that does not exist yet: every
// incoming line is an addition.
func Creation(incoming string) []Hunk {
	lines := strings.Split(incoming, "\n")
	hunk := Hunk{
		OldStart: 0,
		NewStart: 1,
		NewCount: len(lines),
		Lines:    make([]Line, len(lines)),
	}
	for i, line := range lines {
		hunk.Lines[i] = Line{Type: LineAdded, Content: line}
	}
	return []Hunk{hunk}
}

// Stats counts added and removed lines across hunks.
func Stats(hunks []Hunk) (added, removed int) {
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

func computeLines(old, incoming []string) []Hunk {
	lcs := longestCommonSubsequence(old, incoming)

	var hunks []Hunk
	var currentHunk *Hunk

	oldIdx, newIdx, lcsIdx := 0, 0, 0

	for oldIdx < len(old) || newIdx < len(incoming) {
		// Check if current lines are in the LCS
		inLCS := lcsIdx < len(lcs) &&
			oldIdx < len(old) &&
			newIdx < len(incoming) &&
			old[oldIdx] == lcs[lcsIdx] &&
			incoming[newIdx] == lcs[lcsIdx]

		if inLCS {
			// Common line - add as context or close hunk
			if currentHunk != nil {
				currentHunk.Lines = append(currentHunk.Lines, Line{
					Type:    LineContext,
					Content: old[oldIdx],
				})
				hunks = append(hunks, *currentHunk)
				currentHunk = nil
			}
			oldIdx++
			newIdx++
			lcsIdx++
			continue
		}

		// Different lines - start or continue a hunk
		if currentHunk == nil {
			currentHunk = &Hunk{
				OldStart: oldIdx + 1,
				NewStart: newIdx + 1,
			}
		}

		if oldIdx < len(old) && (lcsIdx >= len(lcs) || old[oldIdx] != lcs[lcsIdx]) {
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:    LineRemoved,
				Content: old[oldIdx],
			})
			currentHunk.OldCount++
			oldIdx++
		}

		if newIdx < len(incoming) && (lcsIdx >= len(lcs) || incoming[newIdx] != lcs[lcsIdx]) {
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:    LineAdded,
				Content: incoming[newIdx],
			})
			currentHunk.NewCount++
			newIdx++
		}
	}

	if currentHunk != nil {
		hunks = append(hunks, *currentHunk)
	}

	return hunks
}

// longestCommonSubsequence finds the LCS of two line slices.
func longestCommonSubsequence(old, incoming []string) []string {
	m, n := len(old), len(incoming)
	if m == 0 || n == 0 {
		return nil
	}

	// Build LCS length table
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if old[i-1] == incoming[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	// Backtrack to find the LCS
	lcs := make([]string, dp[m][n])
	i, j, idx := m, n, dp[m][n]-1

	for i > 0 && j > 0 {
		if old[i-1] == incoming[j-1] {
			lcs[idx] = old[i-1]
			i--
			j--
			idx--
		} else if dp[i-1][j] > dp[i][j-1] {
			i--
		} else {
			j--
		}
	}

	return lcs
}
