package main

import (
	"github.com/danswartzendruber/avl"
	"io"
	"time"
)

//
// Constants
//

const VERSION = "1.0.2"

const myPrompt = "% "

const executePrompt = "? "

const minLineNo = 0
const maxLineNo = 32767

//
// Line number of an immediate-mode statement, which has none
//

const noLineNo = int16(-1)

//
// GOSUB return stack sentinel, pushed when there is no statement
// following the GOSUB to resume at.  RETURN popping it ends the run
//

const gosubEndOfRun = int16(-1)

const maxLineLen = 255

const numVariables = 26

const basFileSuffix = ".bas"

const colorRedSeq = "\033[31m"
const colorResetSeq = "\033[0m"

//
// Relational operators
//

const (
	relopLT = iota
	relopGT
	relopEQ
	relopLE
	relopGE
	relopNE
)

//
// Fault classes.  Every fault the core raises belongs to exactly one
// of these, and every one is recovered at the submitLine boundary
//

const (
	faultSyntax = iota
	faultRuntime
	faultEncoding
)

//
// Set at build time via -ldflags
//

var buildTimestampStr string

//
// Type definitions
//

//
// One stored program line.  The avl field makes the node directly
// insertable into the program tree, keyed by lineNo
//

type codeLine struct {
	avl    avl.AvlNode
	text   string
	lineNo int16
}

//
// A fault raised by the scanner or the executor.  Raised with panic,
// recovered at the submitLine boundary, and handed to the caller as
// an ordinary error.  src/col carry enough context to reprint the
// offending line with the failure position colorized
//

type basicError struct {
	msg    string
	src    string
	col    int
	lineNo int16
	kind   int
}

func (e *basicError) Error() string {
	return e.msg
}

//
// Internal (interpreter bug) faults.  These are NOT recovered by
// submitLine; they unwind to the top-level call wrapper, which prints
// the message, source location and a stack trace
//

type internalError struct {
	msg  string
	file string
	line int
}

//
// Runtime statistics for an executing program
//

type runStats struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}

//
// The interpreter.  One instance owns all long-lived state: the
// program tree, the variable bank, the GOSUB return stack and the run
// cursor.  Strictly single-threaded: a submitLine call runs to
// completion before the next is accepted.  The interrupted flag is
// the one exception, written by the signal handler goroutine and
// polled at statement boundaries
//

type interp struct {
	program     *avl.AvlNode
	vars        [numVariables]int16
	gosubStack  []int16
	curLine     int16
	running     bool
	jumped      bool
	exiting     bool
	interrupted bool

	out       io.Writer
	readInput func(prompt string) (string, error)

	printStats bool
	traceExec  bool
	traceVars  bool
	traceDump  bool

	stats runStats
}
