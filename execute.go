package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

//
// Construct an interpreter.  The output sink and the input callback
// are the only external collaborators the core knows about: PRINT and
// LIST write fragments to out, INPUT asks readInput for one line of
// text per value.  main wires these to the terminal; tests wire
// buffers and canned input
//

func newInterp(out io.Writer, readInput func(string) (string, error)) *interp {

	// a nil program root is the empty tree
	return &interp{out: out, readInput: readInput}
}

//
// Accept one raw line of text.  A line starting with a number is
// stored (or, with an empty body, deleted); anything else executes
// immediately.  Every fault the scanner or executor raises is
// recovered here and handed back as an ordinary error; an active run
// is aborted, but the interpreter stays usable
//

func (ip *interp) submitLine(raw string) (err error) {

	defer func() {
		if e := recover(); e != nil {
			be, ok := e.(*basicError)
			if !ok {
				panic(e) // interpreter bug, let call() decode it
			}

			ip.running = false
			err = be
		}
	}()

	line := strings.TrimSpace(raw)

	checkAscii(line)

	if line == "" {
		return nil
	}

	if isDigit(line[0]) {
		ip.storeLine(line)
	} else {
		ip.executeImmediate(line)
	}

	return nil
}

//
// A line with a leading number is program text, never executed now.
// The number must lie in [0, 32767] and be followed by whitespace or
// nothing; the body is stored verbatim (minus the separating blanks)
// so LIST can reproduce it byte for byte.  A numbered line with an
// empty body deletes the stored line, per Tiny BASIC convention
//

func (ip *interp) storeLine(line string) {

	sc := newLineScanner(line, noLineNo)

	end := 0
	for end < len(line) && isDigit(line[end]) {
		end++
	}

	n, err := strconv.ParseInt(line[0:end], 10, 64)
	if err != nil || n > maxLineNo {
		sc.syntaxError(EILLEGALLINENO)
	}

	if end < len(line) && line[end] != ' ' && line[end] != '\t' {
		sc.pos = end
		sc.syntaxError(EILLEGALLINENO)
	}

	body := strings.TrimLeft(line[end:], " \t")

	if body == "" {
		ip.eraseLine(int16(n))
	} else {
		ip.insertLine(int16(n), body)
	}
}

//
// Execute one unnumbered line.  The statement may start a run (RUN,
// GOTO, GOSUB, RETURN all do), in which case we drive the run loop to
// completion before returning to the caller
//

func (ip *interp) executeImmediate(line string) {

	ip.runStatement(newLineScanner(line, noLineNo))

	if ip.running {
		ip.runLoop()

		if ip.printStats {
			ip.printStatistics()
		}
	}
}

//
// The run loop.  The run cursor always names a stored line; each pass
// executes that line's text, then advances to the next-greater line
// number unless the statement transferred control itself.  Falling
// off the end of the program, or END, stops the run
//

func (ip *interp) runLoop() {

	for ip.running {
		if ip.interrupted {
			ip.interrupted = false
			ip.runtimeError(EINTERRUPTED)
		}

		line := ip.lookupLine(ip.curLine)
		ip.runtimeCheck(line != nil,
			fmt.Sprintf("Line %d not found", ip.curLine))

		if ip.traceExec {
			fmt.Fprintf(ip.out, "%d %s\n", line.lineNo, line.text)
		}

		ip.jumped = false

		ip.runStatement(newLineScanner(line.text, line.lineNo))

		ip.stats.numStatements++

		if !ip.running {
			break
		}

		if !ip.jumped {
			next := ip.nextLine(line)
			if next == nil {
				ip.running = false
			} else {
				ip.curLine = next.lineNo
			}
		}
	}
}

//
// Recognize and execute exactly one statement, then insist the line
// is exhausted.  A false IF discards its THEN clause unscanned, which
// satisfies the trailing check by construction
//

func (ip *interp) runStatement(sc *lineScanner) {

	ip.dispatch(sc)

	if !sc.atEnd() {
		sc.skipWhitespace()
		sc.syntaxError(ETRAILINGINPUT)
	}
}

//
// Statement dispatch: try each candidate keyword in turn.  tryKeyword
// restores the cursor on a failed match, so the first keyword that
// sticks names the production; everything after it is committed, and
// recognition IS execution - there is no tree, no deferred form.  No
// keyword here is a prefix of another (the follower rule keeps GOTO
// out of GOSUB's way), so relative order does not matter
//

func (ip *interp) dispatch(sc *lineScanner) {

	switch {
	case sc.tryKeyword("PRINT"):
		ip.executePrint(sc)

	case sc.tryKeyword("IF"):
		ip.executeIf(sc)

	case sc.tryKeyword("GOSUB"):
		ip.executeGosub(sc)

	case sc.tryKeyword("GOTO"):
		ip.executeGoto(sc)

	case sc.tryKeyword("RETURN"):
		ip.executeReturn()

	case sc.tryKeyword("INPUT"):
		ip.executeInput(sc)

	case sc.tryKeyword("LET"):
		ip.executeLet(sc)

	case sc.tryKeyword("CLEAR"):
		ip.executeClear()

	case sc.tryKeyword("LIST"):
		ip.executeList()

	case sc.tryKeyword("RUN"):
		ip.executeRun()

	case sc.tryKeyword("END"):
		ip.executeEnd()

	case sc.tryKeyword("BYE"):
		ip.executeBye()

	case sc.tryKeyword("HELP"):
		ip.executeHelp()

	case sc.tryKeyword("STATS"):
		ip.executeStats()

	case sc.tryKeyword("TRACE"):
		ip.executeTrace(sc)

	default:
		sc.syntaxError(EUNKNOWNSTATEMENT)
	}
}

//
// PRINT expr-list: each element is a string literal (emitted
// verbatim) or an expression (emitted as its decimal value), strictly
// left to right.  A comma separator emits a single space, a semicolon
// emits nothing, and the list ends with a line break.  A bare PRINT
// emits just the line break
//

func (ip *interp) executePrint(sc *lineScanner) {

	if !sc.atEnd() {
		for {
			if sc.atString() {
				fmt.Fprint(ip.out, sc.consumeString())
			} else {
				fmt.Fprint(ip.out, formatNumber(ip.expression(sc)))
			}

			if sc.tryChar(',') {
				fmt.Fprint(ip.out, " ")
			} else if !sc.tryChar(';') {
				break
			}
		}
	}

	fmt.Fprintln(ip.out)
}

//
// IF expression relop expression THEN statement.  When the
// comparison is false the rest of the line, THEN keyword included, is
// discarded without being scanned: a syntax error hiding in a false
// THEN clause is never detected.  That asymmetry is the documented
// cost of executing during the scan, and it must not be "fixed"
//

func (ip *interp) executeIf(sc *lineScanner) {

	lhs := ip.expression(sc)
	op := sc.consumeRelop()
	rhs := ip.expression(sc)

	if !compareValues(op, lhs, rhs) {
		sc.flush()
		return
	}

	if !sc.tryKeyword("THEN") {
		sc.syntaxError(EEXPECTEDTHEN)
	}

	ip.dispatch(sc)
}

func compareValues(op int, lhs, rhs int16) bool {

	switch op {
	case relopLT:
		return lhs < rhs

	case relopGT:
		return lhs > rhs

	case relopEQ:
		return lhs == rhs

	case relopLE:
		return lhs <= rhs

	case relopGE:
		return lhs >= rhs

	case relopNE:
		return lhs != rhs
	}

	fatalError("Invalid relop %d", op)

	panic(nil) // avoid compiler complaint
}

//
// GOTO: validate the target, then move the run cursor.  Outside a run
// this starts one at the target line
//

func (ip *interp) executeGoto(sc *lineScanner) {

	target := ip.expression(sc)

	ip.runtimeCheck(ip.lookupLine(target) != nil,
		fmt.Sprintf("GOTO to non-existent line %d", target))

	ip.transferTo(target)
}

//
// GOSUB: like GOTO, but first push the line that logically follows
// the current one, so RETURN can resume there.  When nothing follows
// (immediate mode, or GOSUB from the last stored line) we push a
// sentinel; RETURN popping it ends the run instead
//

func (ip *interp) executeGosub(sc *lineScanner) {

	target := ip.expression(sc)

	ip.runtimeCheck(ip.lookupLine(target) != nil,
		fmt.Sprintf("GOSUB to non-existent line %d", target))

	resume := gosubEndOfRun

	if ip.running {
		if next := ip.lineAfter(ip.curLine); next != nil {
			resume = next.lineNo
		}
	}

	ip.gosubStack = append(ip.gosubStack, resume)

	ip.transferTo(target)
}

func (ip *interp) executeReturn() {

	ip.runtimeCheck(len(ip.gosubStack) > 0, ERETURNNOGOSUB)

	resume := ip.gosubStack[len(ip.gosubStack)-1]
	ip.gosubStack = ip.gosubStack[:len(ip.gosubStack)-1]

	if resume == gosubEndOfRun {
		ip.running = false
		ip.jumped = true
		return
	}

	//
	// The resume line can have been deleted between runs, so it gets
	// the same validation as an explicit jump target
	//

	ip.runtimeCheck(ip.lookupLine(resume) != nil,
		fmt.Sprintf("RETURN to non-existent line %d", resume))

	ip.transferTo(resume)
}

//
// Move the run cursor, flagging the jump so the run loop does not
// advance past it.  Starting a transfer outside a run begins one
//

func (ip *interp) transferTo(target int16) {

	ip.curLine = target
	ip.jumped = true
	ip.running = true
}

//
// INPUT var (, var)*: request one value per variable, in order.  A
// malformed value is reported and the same variable re-requested;
// only end of input aborts the statement
//

func (ip *interp) executeInput(sc *lineScanner) {

	for {
		ip.inputVariable(sc.consumeVariable())

		if !sc.tryChar(',') {
			break
		}
	}
}

func (ip *interp) inputVariable(v int) {

	for {
		text, err := ip.readInput(executePrompt)
		if err == errInputInterrupted {
			ip.runtimeError(EINTERRUPTED)
		} else if err != nil {
			ip.runtimeError(EENDOFINPUT)
		}

		val, ok := parseInputNumber(strings.TrimSpace(text))
		if !ok {
			fmt.Fprintln(ip.out, EILLEGALNUMBER)
			continue
		}

		ip.storeVar(v, val)

		return
	}
}

//
// Convert one INPUT response: optional sign, decimal digits, wrapped
// into 16-bit range the same way literals are
//

func parseInputNumber(s string) (int16, bool) {

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return int16(n), true
}

func (ip *interp) executeLet(sc *lineScanner) {

	v := sc.consumeVariable()

	sc.expectChar('=', EEXPECTEDEQUALS)

	ip.storeVar(v, ip.expression(sc))
}

//
// CLEAR wipes everything: program, variables, and the GOSUB stack
// (returning into a cleared program is meaningless).  A run executing
// the CLEAR has nothing left to run, so it ends too
//

func (ip *interp) executeClear() {

	ip.eraseProgram()
	ip.clearVariables()

	ip.gosubStack = nil
	ip.running = false
	ip.jumped = true
}

func (ip *interp) executeList() {

	for line := ip.firstLine(); line != nil; line = ip.nextLine(line) {
		fmt.Fprintf(ip.out, "%d %s\n", line.lineNo, line.text)
	}
}

//
// RUN: start from the smallest stored line number.  Each RUN begins
// with a fresh return stack and fresh statistics; the variable bank
// deliberately survives, since only CLEAR resets it
//

func (ip *interp) executeRun() {

	first := ip.firstLine()

	ip.runtimeCheck(first != nil, ENOPROGRAM)

	ip.gosubStack = nil

	ip.resetStatistics()
	ip.initClock()

	ip.transferTo(first.lineNo)
}

//
// END terminates the current run; outside a run it is a no-op
//

func (ip *interp) executeEnd() {

	ip.running = false
	ip.jumped = true
}

func (ip *interp) executeBye() {

	ip.exiting = true
	ip.running = false
	ip.jumped = true
}

func (ip *interp) executeStats() {

	ip.printStats = !ip.printStats

	fmt.Fprintf(ip.out, "Statistics %s\n", switchSetting(ip.printStats))
}

func (ip *interp) executeTrace(sc *lineScanner) {

	switch {
	case sc.tryKeyword("EXEC"):
		ip.traceExec = !ip.traceExec
		fmt.Fprintf(ip.out, "Execution tracing %s\n",
			switchSetting(ip.traceExec))

	case sc.tryKeyword("VARS"):
		ip.traceVars = !ip.traceVars
		fmt.Fprintf(ip.out, "Variable tracing %s\n",
			switchSetting(ip.traceVars))

	case sc.tryKeyword("DUMP"):
		ip.traceDump = !ip.traceDump
		fmt.Fprintf(ip.out, "Stored-line dumping %s\n",
			switchSetting(ip.traceDump))

	default:
		sc.syntaxError("TRACE EXEC, TRACE VARS or TRACE DUMP expected")
	}
}

//
// Expression evaluation: recursive descent fused with evaluation.
// Each operator is consumed and its right operand folded into the
// running accumulator immediately; precedence comes from the call
// structure (unary sign, then * /, then + -), associativity from the
// loops.  All arithmetic is signed 16-bit with two's-complement
// wrap-around, which Go's fixed-size integers give us directly
//

func (ip *interp) expression(sc *lineScanner) int16 {

	neg := false

	if sc.tryChar('+') {
		// explicit positive sign, nothing to do
	} else if sc.tryChar('-') {
		neg = true
	}

	val := ip.term(sc)
	if neg {
		val = -val
	}

	for {
		if sc.tryChar('+') {
			val += ip.term(sc)
		} else if sc.tryChar('-') {
			val -= ip.term(sc)
		} else {
			return val
		}
	}
}

func (ip *interp) term(sc *lineScanner) int16 {

	val := ip.factor(sc)

	for {
		if sc.tryChar('*') {
			val *= ip.factor(sc)
		} else if sc.tryChar('/') {
			divisor := ip.factor(sc)
			ip.runtimeCheck(divisor != 0, EDIVISIONBYZERO)
			val /= divisor
		} else {
			return val
		}
	}
}

func (ip *interp) factor(sc *lineScanner) int16 {

	if v, ok := sc.tryVariable(); ok {
		return ip.fetchVar(v)
	}

	if n, ok := sc.tryNumber(); ok {
		return n
	}

	if sc.tryChar('(') {
		val := ip.expression(sc)
		sc.expectChar(')', EEXPECTEDRPAR)
		return val
	}

	sc.skipWhitespace()
	sc.syntaxError(EEXPECTEDOPERAND)

	panic(nil) // avoid compiler complaint
}

func formatNumber(val int16) string {

	return strconv.FormatInt(int64(val), 10)
}
