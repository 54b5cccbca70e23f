package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind distinguishes literal text from directive bodies.
type SegmentKind uint8

// Segment kinds
const (
	SegmentLiteral SegmentKind = iota
	SegmentDirective
)

// String returns the segment kind name
func (k SegmentKind) String() string {
	if k == SegmentDirective {
		return "directive"
	}
	return "literal"
}

// Segment is one piece of scanned template text.
type Segment struct {
	Kind SegmentKind
	// Text is the literal content, borrowed from the source.
	Text Text
	// Body is the directive body with doubled delimiters collapsed.
	Body     string
	Position Position
}

// ValidateDelimiter rejects characters that cannot bound a directive.
func ValidateDelimiter(r rune) error {
	switch {
	case r == 0, r == utf8.RuneError, !utf8.ValidRune(r):
		return ErrInvalidDelimiter
	case r == CharBackslash, r == CharSingleQuote, r == CharDoubleQuote:
		return ErrInvalidDelimiter
	case unicode.IsSpace(r):
		return ErrInvalidDelimiter
	}
	return nil
}

// Scanner splits template text into literal and directive segments.
//
// A doubled delimiter character is an escape for one literal character, both
// in text and inside a directive body. When open and close are the same
// character a doubled character is always an escape. Quotes inside a body
// hide delimiters.
type Scanner struct {
	source string
	open   rune
	close  rune

	// incremental line tracking; queries arrive in increasing offset order
	trackPos  int
	trackLine int
	trackCol  int
}

// NewScanner creates a scanner for source
func NewScanner(source string, open, close rune) *Scanner {
	return &Scanner{
		source:    source,
		open:      open,
		close:     close,
		trackLine: 1,
		trackCol:  1,
	}
}

// Scan returns the segments of the whole source.
func (s *Scanner) Scan() ([]Segment, error) {
	var segments []Segment
	litStart := 0
	pos := 0

	for pos < len(s.source) {
		r, w := utf8.DecodeRuneInString(s.source[pos:])
		if r != s.open && r != s.close {
			pos += w
			continue
		}

		if s.runeAt(pos+w) == r {
			// Escape: keep one delimiter in the literal run, skip the second.
			segments = s.appendLiteral(segments, litStart, pos+w)
			pos += 2 * w
			litStart = pos
			continue
		}

		if r != s.open {
			// Lone close outside a directive is plain text.
			pos += w
			continue
		}

		segments = s.appendLiteral(segments, litStart, pos)
		body, end, err := s.scanBody(pos, pos+w)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Kind:     SegmentDirective,
			Body:     body,
			Position: s.positionAt(pos),
		})
		pos = end
		litStart = pos
	}

	return s.appendLiteral(segments, litStart, len(s.source)), nil
}

// scanBody reads a directive body starting at bodyStart and returns it with
// the offset just past the closing delimiter. openAt is the directive start,
// used for error positions.
func (s *Scanner) scanBody(openAt, bodyStart int) (string, int, error) {
	var sb strings.Builder
	escaped := false
	chunk := bodyStart
	pos := bodyStart
	var quote rune
	quoteAt := 0

	for pos < len(s.source) {
		r, w := utf8.DecodeRuneInString(s.source[pos:])

		if quote != 0 {
			switch r {
			case CharBackslash:
				pos += w
				if pos < len(s.source) {
					_, nw := utf8.DecodeRuneInString(s.source[pos:])
					pos += nw
				}
				continue
			case quote:
				quote = 0
			}
			pos += w
			continue
		}

		switch {
		case r == CharSingleQuote || r == CharDoubleQuote:
			quote = r
			quoteAt = pos
		case (r == s.close || r == s.open) && s.runeAt(pos+w) == r:
			// Doubled delimiter inside a body collapses to one character.
			escaped = true
			sb.WriteString(s.source[chunk : pos+w])
			pos += 2 * w
			chunk = pos
			continue
		case r == s.close:
			if !escaped {
				return s.source[bodyStart:pos], pos + w, nil
			}
			sb.WriteString(s.source[chunk:pos])
			return sb.String(), pos + w, nil
		}
		pos += w
	}

	if quote != 0 {
		return "", 0, &CompileError{Kind: CompileErrUnterminatedQuote, Position: s.positionAt(quoteAt)}
	}
	return "", 0, &CompileError{Kind: CompileErrUnterminatedDirective, Position: s.positionAt(openAt)}
}

func (s *Scanner) appendLiteral(segments []Segment, start, end int) []Segment {
	if start >= end {
		return segments
	}
	return append(segments, Segment{
		Kind:     SegmentLiteral,
		Text:     BorrowRange(s.source, start, end),
		Position: s.positionAt(start),
	})
}

// runeAt decodes the rune at byte offset pos, or returns -1 past the end
func (s *Scanner) runeAt(pos int) rune {
	if pos >= len(s.source) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.source[pos:])
	return r
}

// positionAt converts a byte offset to a line/column position. A smaller
// offset than the previous query restarts counting from the beginning.
func (s *Scanner) positionAt(offset int) Position {
	if offset < s.trackPos {
		s.trackPos, s.trackLine, s.trackCol = 0, 1, 1
	}
	for s.trackPos < offset && s.trackPos < len(s.source) {
		r, w := utf8.DecodeRuneInString(s.source[s.trackPos:])
		s.trackPos += w
		if r == CharNewline {
			s.trackLine++
			s.trackCol = 1
		} else {
			s.trackCol++
		}
	}
	return Position{Offset: offset, Line: s.trackLine, Column: s.trackCol}
}
