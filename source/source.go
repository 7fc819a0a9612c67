// Package source defines source buffer, position, and cursor used by lexer and parser.
package source

import (
	"bytes"
	"unicode/utf8"
)

// Source is an immutable named byte buffer with line/column lookup.
// It is safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates new Source for given name and content.
// Content is not copied and must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Name returns source name passed to New.
func (s *Source) Name() string {
	return s.name
}

// Content returns source content passed to New.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// LineCol returns 1-based line and column numbers for given byte offset.
// Offsets outside the content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := s.findLineIndex(pos)
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

func (s *Source) findLineIndex(pos int) int {
	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	for leftIndex < rightIndex {
		index := (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			return index
		}

		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
		}
	}
	return leftIndex
}

// Pos is an immutable position in a source.
type Pos struct {
	src *Source
	pos int
}

// NewPos creates new Pos for given source and byte offset.
func NewPos(src *Source, pos int) Pos {
	return Pos{src, pos}
}

// Source returns the source this position belongs to.
func (p Pos) Source() *Source {
	return p.src
}

// Offset returns byte offset in source content.
func (p Pos) Offset() int {
	return p.pos
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

// Line returns 1-based line number or 0.
func (p Pos) Line() int {
	if p.src == nil {
		return 0
	}
	line, _ := p.src.LineCol(p.pos)
	return line
}

// Col returns 1-based column number or 0.
func (p Pos) Col() int {
	if p.src == nil {
		return 0
	}
	_, col := p.src.LineCol(p.pos)
	return col
}

// Cursor is a position in a source that may be advanced.
// Cursor is copied by value: a trial parse runs against a copy,
// so a failed trial leaves the original cursor untouched.
type Cursor struct {
	src *Source
	pos int
}

// NewCursor creates new Cursor at the start of src.
func NewCursor(src *Source) Cursor {
	return Cursor{src: src}
}

// Source returns the source this cursor reads.
func (c *Cursor) Source() *Source {
	return c.src
}

// Offset returns current byte offset.
func (c *Cursor) Offset() int {
	return c.pos
}

// Rest returns unread content.
func (c *Cursor) Rest() []byte {
	if c.src == nil {
		return nil
	}
	return c.src.Content()[c.pos:]
}

// AtEnd reports whether the whole content has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.src == nil || c.pos >= c.src.Len()
}

// Skip advances the cursor by size bytes, clamping at the end of content.
func (c *Cursor) Skip(size int) {
	if c.src == nil || size <= 0 {
		return
	}

	c.pos += size
	if c.pos > c.src.Len() {
		c.pos = c.src.Len()
	}
}

// SourcePos returns current position as Pos.
func (c *Cursor) SourcePos() Pos {
	return Pos{c.src, c.pos}
}
