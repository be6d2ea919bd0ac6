package services

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type rowState int

const (
	startRecord rowState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// rowReader reads comma-separated rows from text that has already been
// decoded. Text is first broken into lines on every Unicode line boundary
// (\n, \r\n, a lone \r, \v, \f, \x1c-\x1e, U+0085, U+2028, U+2029); rows are
// then parsed from those lines:
//   - an empty line outside a quoted field is a row with no fields;
//   - a quoted field may span lines, the line breaks themselves are dropped;
//   - "" inside a quoted field is a literal quote;
//   - a quote inside an unquoted field, or text following the closing quote
//     of a quoted field, is kept as ordinary text;
//   - a quoted field still open at the end of the text is an error.
type rowReader struct {
	text string
	pos  int
	line int

	state  rowState
	fields []string
	field  strings.Builder
}

func newRowReader(text string) *rowReader {
	return &rowReader{text: text}
}

// Read returns the next row, or io.EOF once the text is exhausted.
func (r *rowReader) Read() ([]string, error) {
	r.state = startRecord
	r.fields = []string{}
	r.field.Reset()
	startLine := r.line + 1

	for {
		line, ok := r.nextLine()
		if !ok {
			if r.state == startRecord {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("quoted field starting on line %d: %w", startLine, ErrUnterminatedQuote)
		}
		for _, c := range line {
			r.process(c, false)
		}
		r.process(0, true)
		if r.state == startRecord {
			return r.fields, nil
		}
	}
}

func (r *rowReader) process(c rune, eol bool) {
	switch r.state {
	case startRecord:
		if eol {
			return
		}
		r.state = startField
		fallthrough
	case startField:
		switch {
		case eol:
			r.saveField()
			r.state = startRecord
		case c == '"':
			r.state = inQuotedField
		case c == ',':
			r.saveField()
		default:
			r.field.WriteRune(c)
			r.state = inField
		}
	case inField:
		switch {
		case eol:
			r.saveField()
			r.state = startRecord
		case c == ',':
			r.saveField()
			r.state = startField
		default:
			r.field.WriteRune(c)
		}
	case inQuotedField:
		switch {
		case eol:
		case c == '"':
			r.state = quoteInQuotedField
		default:
			r.field.WriteRune(c)
		}
	case quoteInQuotedField:
		switch {
		case eol:
			r.saveField()
			r.state = startRecord
		case c == '"':
			r.field.WriteRune(c)
			r.state = inQuotedField
		case c == ',':
			r.saveField()
			r.state = startField
		default:
			r.field.WriteRune(c)
			r.state = inField
		}
	}
}

func (r *rowReader) saveField() {
	r.fields = append(r.fields, r.field.String())
	r.field.Reset()
}

// nextLine returns the next line without its terminator. Text ending in a
// line break does not produce a trailing empty line.
func (r *rowReader) nextLine() (string, bool) {
	if r.pos >= len(r.text) {
		return "", false
	}
	rest := r.text[r.pos:]
	r.line++
	for i, c := range rest {
		switch c {
		case '\r':
			end := i + 1
			if end < len(rest) && rest[end] == '\n' {
				end++
			}
			r.pos += end
			return rest[:i], true
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			r.pos += i + utf8.RuneLen(c)
			return rest[:i], true
		}
	}
	r.pos = len(r.text)
	return rest, true
}
