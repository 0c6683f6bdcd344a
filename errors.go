package main

import (
	"fmt"
	"runtime"
	"strings"
)

//
// Manifest constants for the interpreter error messages.  A few of
// these (EILLEGALNUMBER, EDIVISIONBYZERO, EINTERRUPTED) keep the
// wording of the DEC BASIC manuals, since there was no reason to
// invent new text
//

const (
	EUNKNOWNSTATEMENT = "Unrecognized statement"
	ETRAILINGINPUT    = "Trailing characters after statement"
	EEXPECTEDOPERAND  = "Operand expected"
	EEXPECTEDVARIABLE = "Variable name expected"
	EEXPECTEDRELOP    = "Relational operator expected"
	EEXPECTEDTHEN     = "THEN expected"
	EEXPECTEDEQUALS   = "'=' expected"
	EEXPECTEDRPAR     = "')' expected"
	EUNTERMINATEDSTR  = "Unterminated string literal"
	EILLEGALLINENO    = "Illegal line number"
	ENONASCII         = "Non-ASCII character in input"
	EILLEGALNUMBER    = "Illegal number"
	EDIVISIONBYZERO   = "Division by 0"
	ERETURNNOGOSUB    = "RETURN without GOSUB"
	ENOPROGRAM        = "No program loaded"
	EINTERRUPTED      = "Interrupted"
	EENDOFINPUT       = "End of file during INPUT"
)

//
// Raise a syntax fault at the scanner's current position.  The
// scanner knows the source line, the column and the statement number
// (if any), so the resulting error can reprint the offending line
// with the failure position highlighted
//

func (sc *lineScanner) syntaxError(msg string) {

	panic(&basicError{
		msg:    msg,
		src:    sc.line,
		col:    sc.pos + 1,
		lineNo: sc.lineNo,
		kind:   faultSyntax,
	})
}

//
// Encoding faults are positional like syntax faults, but get their
// own class: the line was rejected before any scanning happened
//

func encodingError(line string, col int) {

	panic(&basicError{
		msg:  ENONASCII,
		src:  line,
		col:  col,
		kind: faultEncoding,
	})
}

//
// Runtime faults carry the number of the line that was executing, or
// noLineNo in immediate mode.  They have no useful column
//

func (ip *interp) runtimeError(msg string) {

	lineNo := noLineNo
	if ip.running {
		lineNo = ip.curLine
	}

	panic(&basicError{msg: msg, lineNo: lineNo, kind: faultRuntime})
}

func (ip *interp) runtimeCheck(chk bool, msg string) {

	if !chk {
		ip.runtimeError(msg)
	}
}

//
// Errors raised by the interpreter itself, almost always an assertion
// failure.  We record the filename and line number of our caller, and
// let the panic unwind past submitLine to the top-level call wrapper
//

func fatalError(f string, args ...any) {

	raiseInternal(2, fmt.Sprintf(f, args...))
}

func basicAssert(chk bool, msg string) {

	if !chk {
		raiseInternal(2, msg)
	}
}

func raiseInternal(skip int, msg string) {

	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		crash("Unable to find caller frame!")
	}

	msg = strings.TrimRight(msg, "\n")

	panic(&internalError{msg: msg, file: file, line: line})
}
