package main

//
// Character-level recognition over one line of ASCII text, with an
// internal cursor.  A fresh scanner is built for every line executed;
// no scanner state survives the line.  There is deliberately no token
// stream here: the executor asks for exactly the lexical shape it
// needs next (keyword, number, variable, relop, string), and each
// recognizer either consumes it or fails in place.  Keyword-driven
// dispatch uses the try* forms, which restore the cursor on failure;
// the consume* forms raise a syntax fault instead
//

type lineScanner struct {
	line   string
	pos    int
	lineNo int16
}

//
// The caller must have verified the line is pure ASCII (checkAscii)
// before constructing a scanner over it
//

func newLineScanner(line string, lineNo int16) *lineScanner {

	return &lineScanner{line: line, lineNo: lineNo}
}

//
// Reject any byte >= 0x80 up front, rather than letting a stray
// UTF-8 sequence be misread as line noise by the recognizers
//

func checkAscii(line string) {

	for i := 0; i < len(line); i++ {
		if line[i] >= 0x80 {
			encodingError(line, i+1)
		}
	}
}

func (sc *lineScanner) skipWhitespace() {

	for sc.pos < len(sc.line) &&
		(sc.line[sc.pos] == ' ' || sc.line[sc.pos] == '\t') {
		sc.pos++
	}
}

//
// True when only whitespace (or nothing) remains.  Any statement that
// leaves the scanner not atEnd has trailing garbage
//

func (sc *lineScanner) atEnd() bool {

	for i := sc.pos; i < len(sc.line); i++ {
		if sc.line[i] != ' ' && sc.line[i] != '\t' {
			return false
		}
	}

	return true
}

//
// Discard the remainder of the line without scanning it.  Used by a
// false IF to skip the THEN clause
//

func (sc *lineScanner) flush() {

	sc.pos = len(sc.line)
}

func (sc *lineScanner) peek() (byte, bool) {

	if sc.pos < len(sc.line) {
		return sc.line[sc.pos], true
	}

	return 0, false
}

//
// Case-insensitive match of a fixed reserved word at the cursor.  On
// success the cursor advances past the word; on failure it is left
// where it started, so callers can try the next candidate.  The byte
// after the word must not be a letter: GOTO10 names the keyword GOTO,
// PRINTX does not name PRINT
//

func (sc *lineScanner) tryKeyword(kw string) bool {

	sc.skipWhitespace()

	if sc.pos+len(kw) > len(sc.line) {
		return false
	}

	for i := 0; i < len(kw); i++ {
		if upperByte(sc.line[sc.pos+i]) != kw[i] {
			return false
		}
	}

	if sc.pos+len(kw) < len(sc.line) &&
		isLetter(sc.line[sc.pos+len(kw)]) {
		return false
	}

	sc.pos += len(kw)

	return true
}

//
// Single-character consumers, used for operators and punctuation
//

func (sc *lineScanner) tryChar(ch byte) bool {

	sc.skipWhitespace()

	if sc.pos < len(sc.line) && sc.line[sc.pos] == ch {
		sc.pos++
		return true
	}

	return false
}

func (sc *lineScanner) expectChar(ch byte, msg string) {

	if !sc.tryChar(ch) {
		sc.syntaxError(msg)
	}
}

//
// Recognize a decimal number literal.  The digits are accepted as
// written and reduced modulo 2^16 into signed range, so 65535 reads
// as -1.  This is a documented design choice, not an accident: the
// only numeric type is the 16-bit cell, and every arithmetic path
// wraps the same way
//

func (sc *lineScanner) tryNumber() (int16, bool) {

	sc.skipWhitespace()

	if sc.pos >= len(sc.line) || !isDigit(sc.line[sc.pos]) {
		return 0, false
	}

	var acc uint32

	for sc.pos < len(sc.line) && isDigit(sc.line[sc.pos]) {
		acc = (acc*10 + uint32(sc.line[sc.pos]-'0')) % 65536
		sc.pos++
	}

	return int16(uint16(acc)), true
}

//
// Recognize a variable name: one letter A-Z (lower case accepted),
// not immediately followed by another letter or digit.  The follower
// restriction keeps a keyword such as PRINT from being misread as the
// variable P.  The return value is the bank index, 0 for A
//

func (sc *lineScanner) tryVariable() (int, bool) {

	sc.skipWhitespace()

	if sc.pos >= len(sc.line) || !isLetter(sc.line[sc.pos]) {
		return 0, false
	}

	if sc.pos+1 < len(sc.line) &&
		(isLetter(sc.line[sc.pos+1]) || isDigit(sc.line[sc.pos+1])) {
		return 0, false
	}

	v := int(upperByte(sc.line[sc.pos]) - 'A')
	sc.pos++

	return v, true
}

func (sc *lineScanner) consumeVariable() int {

	v, ok := sc.tryVariable()
	if !ok {
		sc.syntaxError(EEXPECTEDVARIABLE)
	}

	return v
}

//
// Recognize one of < > = <= >= <>.  The two-character forms must be
// checked before the one-character prefixes
//

func (sc *lineScanner) consumeRelop() int {

	sc.skipWhitespace()

	switch {
	case sc.tryChar('<'):
		if sc.tryCharNoSkip('=') {
			return relopLE
		} else if sc.tryCharNoSkip('>') {
			return relopNE
		}
		return relopLT

	case sc.tryChar('>'):
		if sc.tryCharNoSkip('=') {
			return relopGE
		}
		return relopGT

	case sc.tryChar('='):
		return relopEQ
	}

	sc.syntaxError(EEXPECTEDRELOP)

	panic(nil) // avoid compiler complaint
}

//
// The second character of a two-character operator must be adjacent:
// "< =" is less-than followed by a stray '='
//

func (sc *lineScanner) tryCharNoSkip(ch byte) bool {

	if sc.pos < len(sc.line) && sc.line[sc.pos] == ch {
		sc.pos++
		return true
	}

	return false
}

//
// Recognize a double-quoted string literal.  No escape sequences: the
// literal runs to the closing quote, and a quote can therefore not
// appear inside a string.  Failing to close the string before end of
// line is a syntax fault
//

func (sc *lineScanner) consumeString() string {

	sc.skipWhitespace()

	start := sc.pos

	if !sc.tryChar('"') {
		sc.syntaxError(EEXPECTEDOPERAND)
	}

	for i := sc.pos; i < len(sc.line); i++ {
		if sc.line[i] == '"' {
			str := sc.line[sc.pos:i]
			sc.pos = i + 1
			return str
		}
	}

	sc.pos = start

	sc.syntaxError(EUNTERMINATEDSTR)

	panic(nil) // avoid compiler complaint
}

//
// Peek helper for PRINT: is the next element a string literal?
//

func (sc *lineScanner) atString() bool {

	sc.skipWhitespace()

	ch, ok := sc.peek()

	return ok && ch == '"'
}

func isDigit(ch byte) bool {

	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {

	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func upperByte(ch byte) byte {

	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}

	return ch
}
