package parser

// Position represents a line/column position in source text
// Uses LSP conventions: 1-based line numbers, 0-based character offsets
type Position struct {
	Line      int `json:"line"`      // 1-based line number
	Character int `json:"character"` // 0-based rune offset within line
	Offset    int `json:"offset"`    // 0-based byte offset in entire source
}

// PositionTracker maintains line/column/offset state while walking source text.
// Characters count runes, so "°C" advances Character by 2 but Offset by 3.
type PositionTracker struct {
	source    string
	line      int // 1-based
	character int // 0-based within line
	offset    int // 0-based in source
}

// NewPositionTracker creates a tracker starting at beginning of source
func NewPositionTracker(source string) *PositionTracker {
	return &PositionTracker{
		source: source,
		line:   1,
	}
}

// AdvanceTo moves the tracker forward to byte offset target (clamped to the source length).
// Offsets inside a multi-byte rune stop at that rune's start.
func (pt *PositionTracker) AdvanceTo(target int) {
	if target > len(pt.source) {
		target = len(pt.source)
	}
	for _, ch := range pt.source[pt.offset:] {
		size := len(string(ch))
		if pt.offset+size > target {
			break
		}
		if ch == '\n' {
			pt.line++
			pt.character = 0
		} else {
			pt.character++
		}
		pt.offset += size
	}
}

// Mark returns the current position snapshot
func (pt *PositionTracker) Mark() Position {
	return Position{
		Line:      pt.line,
		Character: pt.character,
		Offset:    pt.offset,
	}
}

// PositionAt converts a byte offset in source into a line/character position.
func PositionAt(source string, offset int) Position {
	pt := NewPositionTracker(source)
	pt.AdvanceTo(offset)
	return pt.Mark()
}
