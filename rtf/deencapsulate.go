// SPDX-FileCopyrightText: 2022-2024 The go-msgfile Authors
//
// SPDX-License-Identifier: MIT

package rtf

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/wneessen/go-msgfile/internal/codepage"
)

// ContentType is a type wrapper for a string and represents the type of the content that
// was encapsulated into an RTF body.
type ContentType string

const (
	// ContentText is the ContentType of a plain text body (\fromtext)
	ContentText ContentType = "text"

	// ContentHTML is the ContentType of an HTML body (\fromhtml1)
	ContentHTML ContentType = "html"
)

var (
	// ErrNotEncapsulated is returned if the RTF does not carry an encapsulated body
	ErrNotEncapsulated = errors.New("rtf body is not encapsulated")

	// ErrMalformed is returned if the RTF carries an encapsulated body but cannot be
	// processed
	ErrMalformed = errors.New("rtf body contains malformed encapsulated content")
)

// Result is the outcome of a successful de-encapsulation. Depending on the ContentType
// either Text or HTML is set.
type Result struct {
	ContentType ContentType
	Text        string
	HTML        string
}

// ignorableDest are RTF destinations whose content is never part of the body
var ignorableDest = map[string]bool{
	"colortbl": true, "datastore": true, "fldinst": true, "fonttbl": true, "footer": true,
	"footerf": true, "footerl": true, "footerr": true, "generator": true, "header": true,
	"headerf": true, "headerl": true, "headerr": true, "info": true, "latentstyles": true,
	"listoverridetable": true, "listtable": true, "object": true, "pict": true,
	"rsidtbl": true, "stylesheet": true, "themedata": true, "xmlnstbl": true,
}

// groupState holds the state that is scoped to an RTF group
type groupState struct {
	first   bool // no token was processed in this group yet
	starred bool // the group was started with \*
	skip    bool // the group is an ignorable destination
	htmlrtf bool // inside a \htmlrtf ... \htmlrtf0 region
	htmltag bool // the group is a {\*\htmltag} destination
	uc      int  // number of fallback characters after \u
}

// deencapsulator walks the RTF and collects the encapsulated content
type deencapsulator struct {
	data      []byte
	pos       int
	mode      ContentType
	enc       encoding.Encoding
	cur       groupState
	stack     []groupState
	skipChars int
	pending   []byte
	out       strings.Builder
}

// Deencapsulate extracts the original plain text or HTML body from an RTF body that was
// created by encapsulation (MS-OXRTFEX). ErrNotEncapsulated is returned for regular RTF,
// ErrMalformed for RTF that cannot be parsed.
func Deencapsulate(data []byte) (*Result, error) {
	data = bytes.TrimRight(data, "\x00\r\n\t ")
	if !bytes.HasPrefix(data, []byte(`{\rtf`)) {
		return nil, ErrMalformed
	}
	mode, cp := scanHeader(data)
	if mode == "" {
		return nil, ErrNotEncapsulated
	}
	d := &deencapsulator{data: data, mode: mode, enc: codepage.Default, cur: groupState{uc: 1}}
	if enc, ok := codepage.Lookup(cp); ok {
		d.enc = enc
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	if mode == ContentHTML {
		return &Result{ContentType: ContentHTML, HTML: d.out.String()}, nil
	}
	return &Result{ContentType: ContentText, Text: d.out.String()}, nil
}

// scanHeader looks at the control words of the RTF header, which ends with the first
// nested group, for the encapsulation marker and the ANSI code page.
func scanHeader(data []byte) (ContentType, int) {
	var mode ContentType
	cp := 0
	for i := 1; i < len(data) && data[i] != '{' && data[i] != '}'; {
		if data[i] != '\\' {
			i++
			continue
		}
		word, param, hasParam, next := readControlWord(data, i)
		i = next
		switch word {
		case "fromhtml":
			if !hasParam || param == 1 {
				mode = ContentHTML
			}
		case "fromtext":
			mode = ContentText
		case "ansicpg":
			cp = param
		}
	}
	return mode, cp
}

// readControlWord reads the control word at pos, which points to the backslash, and
// returns its name, numeric parameter and the position after the delimiter. Control
// symbols are returned with an empty name.
func readControlWord(data []byte, pos int) (string, int, bool, int) {
	i := pos + 1
	if i >= len(data) || !isAlpha(data[i]) {
		return "", 0, false, i + 1
	}
	start := i
	for i < len(data) && isAlpha(data[i]) {
		i++
	}
	word := string(data[start:i])

	param, hasParam, neg := 0, false, false
	if i < len(data) && data[i] == '-' {
		neg = true
		i++
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		param = param*10 + int(data[i]-'0')
		hasParam = true
		i++
	}
	if neg {
		param = -param
	}
	if i < len(data) && data[i] == ' ' {
		i++
	}
	return word, param, hasParam, i
}

// run processes the whole RTF document
func (d *deencapsulator) run() error {
	for d.pos < len(d.data) {
		c := d.data[d.pos]
		switch {
		case c == '{':
			d.stack = append(d.stack, d.cur)
			d.cur.first, d.cur.starred = true, false
			d.skipChars = 0
			d.pos++
		case c == '}':
			if len(d.stack) == 0 {
				return ErrMalformed
			}
			d.cur = d.stack[len(d.stack)-1]
			d.stack = d.stack[:len(d.stack)-1]
			d.skipChars = 0
			d.pos++
		case len(d.stack) == 0:
			// Content after the closing brace of the document is ignored
			d.pos++
		case c == '\\':
			d.control()
		case c == '\r' || c == '\n':
			d.pos++
		default:
			d.cur.first = false
			d.emitByte(c)
			d.pos++
		}
	}
	if len(d.stack) != 0 {
		return ErrMalformed
	}
	d.flush()
	return nil
}

// control handles a control word or control symbol
func (d *deencapsulator) control() {
	if d.pos+1 >= len(d.data) {
		d.pos++
		return
	}
	c := d.data[d.pos+1]
	if isAlpha(c) {
		word, param, hasParam, next := readControlWord(d.data, d.pos)
		d.pos = next
		d.word(word, param, hasParam)
		return
	}

	d.pos += 2
	if c == '*' {
		d.cur.starred = true
		return
	}
	d.cur.first = false
	switch c {
	case '\\', '{', '}':
		d.emitByte(c)
	case '~':
		d.emitSpecial("&nbsp;", "\u00a0")
	case '_':
		d.emitSpecial("&#8209;", "\u2011")
	case '\'':
		if d.pos+1 < len(d.data) {
			hi, lo := unhex(d.data[d.pos]), unhex(d.data[d.pos+1])
			if hi >= 0 && lo >= 0 {
				d.emitByte(byte(hi<<4 | lo))
			}
			d.pos += 2
		}
	}
}

// word handles a control word
func (d *deencapsulator) word(word string, param int, hasParam bool) {
	if d.cur.first || d.cur.starred {
		switch {
		case word == "htmltag" && d.mode == ContentHTML:
			d.cur.htmltag = true
			d.cur.htmlrtf = false
		case d.cur.starred, ignorableDest[word]:
			d.cur.skip = true
		}
		d.cur.first, d.cur.starred = false, false
	}
	if d.cur.skip {
		return
	}

	switch word {
	case "htmlrtf":
		d.cur.htmlrtf = !hasParam || param != 0
	case "par", "line":
		d.emitString("\r\n")
	case "tab":
		d.emitString("\t")
	case "uc":
		d.cur.uc = param
	case "u":
		if param < 0 {
			param += 65536
		}
		if d.suppressed() {
			return
		}
		d.flush()
		d.out.WriteRune(rune(param))
		d.skipChars = d.cur.uc
	case "ansicpg":
		if enc, ok := codepage.Lookup(param); ok {
			d.flush()
			d.enc = enc
		}
	case "emdash":
		d.emitString("—")
	case "endash":
		d.emitString("–")
	case "lquote":
		d.emitString("‘")
	case "rquote":
		d.emitString("’")
	case "ldblquote":
		d.emitString("“")
	case "rdblquote":
		d.emitString("”")
	case "bullet":
		d.emitString("•")
	}
}

// suppressed reports whether content at the current position is not part of the body
func (d *deencapsulator) suppressed() bool {
	return d.cur.skip || (d.cur.htmlrtf && !d.cur.htmltag)
}

// emitByte adds a byte in the code page of the document to the output
func (d *deencapsulator) emitByte(b byte) {
	if d.suppressed() {
		return
	}
	if d.skipChars > 0 {
		d.skipChars--
		return
	}
	d.pending = append(d.pending, b)
}

// emitString adds an already decoded string to the output
func (d *deencapsulator) emitString(s string) {
	if d.suppressed() {
		return
	}
	d.flush()
	d.out.WriteString(s)
}

// emitSpecial adds the HTML or the text form of a special character, depending on the mode
func (d *deencapsulator) emitSpecial(html, text string) {
	if d.mode == ContentHTML {
		d.emitString(html)
		return
	}
	d.emitString(text)
}

// flush decodes the pending code page bytes into the output
func (d *deencapsulator) flush() {
	if len(d.pending) == 0 {
		return
	}
	d.out.WriteString(codepage.Decode(d.enc, d.pending))
	d.pending = d.pending[:0]
}

// isAlpha returns true if c is an ASCII letter.
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// unhex converts a hex digit character to its value, or -1 if invalid.
func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}
