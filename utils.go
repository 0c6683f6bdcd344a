package main

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
	"io"
	"io/ioutil"
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
)

//
// Ensure we are connected to a tty!
//

func checkTerminal() {

	if !term.IsTerminal(2) {
		crash("")
	}

	if !term.IsTerminal(0) {
		crash("Standard input must be a terminal")
	}

	if !term.IsTerminal(1) {
		crash("Standard output must be a terminal")
	}
}

//
// We create two Liner instances.  One for the command loop, and one
// for any INPUT statements.  We do this because we want a scrollback
// history for commands, but not for user input.  We need to create
// and destroy them in LIFO order, as the Close method is documented
// as 'restoring the terminal to its previous state'.  If we create
// the command instance, and then the 'input' instance, the terminal
// state will go normal => raw => raw.  Closing them in reverse order,
// we see raw => raw => normal
//

var commandLiner *liner.State
var inputLiner *liner.State

func setupLiners() {
	commandLiner = setupLiner(false)
	inputLiner = setupLiner(true)
}

func setupLiner(allowCtrlC bool) *liner.State {

	l := liner.NewLiner()

	l.SetMultiLineMode(allowCtrlC)

	return l
}

//
// Restore terminal state.  NB: we cannot call (or cause to be called)
// crash(), as that would recurse
//

func cleanupLiners() {
	cleanupLiner(&inputLiner)
	cleanupLiner(&commandLiner)
}

func cleanupLiner(linerState **liner.State) {

	if *linerState != nil {
		(*linerState).Close()
		*linerState = nil
	}
}

var errInputInterrupted = errors.New("input interrupted")

//
// Read a line from the terminal, with editing and history
//

func readLine(l *liner.State, prompt string, history bool) (string, error) {

	s, err := l.Prompt(prompt)

	//
	// Annoyingly, a non-nil error here can be totally okay.
	// This happens in the case that the user enters ^D at the
	// beginning of the line (so EOF is seen).  ^C during an INPUT
	// statement comes back as ErrPromptAborted, which the caller
	// turns into the same message as ^C during a run
	//

	if err != nil {
		switch err {
		default:
			crash(fmt.Sprintf("readLine error: %q\n", err))

		case io.EOF:
			return "", io.EOF

		case liner.ErrPromptAborted:
			return "", errInputInterrupted

		case liner.ErrTimedOut:
			return "", io.EOF
		}
	}

	if len(s) > maxLineLen {
		return "", fmt.Errorf("line longer than %d characters", maxLineLen)
	}

	if history && s != "" {
		l.AppendHistory(s)
	}

	return s, nil
}

//
// INPUT callback used when running against a real terminal
//

func readInputLine(prompt string) (string, error) {

	return readLine(inputLiner, prompt, false)
}

//
// Report a scan or execution fault the way the original terminal
// interface did: reprint the offending line with the text from the
// error column onward in red, then the message, suffixed with the
// line number when the fault came from stored code
//

func printBasicError(e *basicError) {

	if e.src != "" && e.col > 0 {
		line := e.src

		if e.col > len(line) {
			line += " "
		}

		fmt.Println(colorizeString(line, e.col-1, len(line)))
	}

	if e.lineNo != noLineNo {
		fmt.Printf("%s at line %d\n", e.msg, e.lineNo)
	} else {
		fmt.Println(e.msg)
	}
}

//
// Return a copy of the input string with the half-open byte range
// [s, e) wrapped in the red escape sequence
//

func colorizeString(str string, s, e int) string {

	return str[0:s] + colorRedSeq + str[s:e] + colorResetSeq + str[e:]
}

func switchSetting(b bool) string {

	if b {
		return "ON"
	} else {
		return "OFF"
	}
}

func pluralize(str string, num int64) string {

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		str += "s"
	}

	return str
}

func convertToMB(num uint64) uint64 {

	const MB = 1024 * 1024

	return (num + MB - 1) / MB
}

//
// Initialize the clock
//

func (ip *interp) initClock() {

	ip.stats.elapsed = time.Now()
	ip.stats.utime, ip.stats.stime = getCPUInfo(1)
}

func (ip *interp) resetStatistics() {

	ip.stats.utime = 0
	ip.stats.stime = 0
	ip.stats.numStatements = 0
}

func (ip *interp) printStatistics() {

	var mem runtime.MemStats

	fmt.Fprintln(ip.out)
	ip.printCpuUsage()
	runtime.GC()
	runtime.ReadMemStats(&mem)
	fmt.Fprintf(ip.out, "%dMB memory used\n", convertToMB(mem.HeapAlloc))
	fmt.Fprintf(ip.out, "%d %s executed\n", ip.stats.numStatements,
		pluralize("statement", ip.stats.numStatements))
}

func (ip *interp) printCpuUsage() {

	elapsed := time.Since(ip.stats.elapsed)
	utime, stime := getCPUInfo(1)

	fmt.Fprintf(ip.out, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-ip.stats.utime),
		formatCPUTime(stime-ip.stats.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

func getCPUInfo(divisor int64) (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		panic(err)
	} else {
		clktck /= divisor
	}

	contents, err := ioutil.ReadFile("/proc/self/stat")
	if err != nil {
		panic(err)
	}

	fields := strings.Fields(string(contents))

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		panic(err)
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		panic(err)
	}

	return utime / clktck, stime / clktck
}

//
// Return valid suffix if present
//

func getFilenameSuffix(filename string) (string, bool) {

	strs := strings.Split(filename, ".")

	switch len(strs) {
	default:
		return "", false

	case 1:
		return "", true

	case 2:
		return "." + strs[1], true
	}
}

//
// Take a filename for a source program and sanity check any
// possible suffix.  If no suffix, append ".bas" and return
// the new filename
//

func validateProgramFilename(filename string) (string, bool) {

	suffix, ok := getFilenameSuffix(filename)
	if !ok || (suffix != "" && suffix != basFileSuffix) {
		return "", false
	} else if suffix == "" {
		return filename + basFileSuffix, true
	} else {
		return filename, true
	}
}

//
// Feed a source file through the interpreter line by line, exactly
// as if it had been typed.  Numbered lines load the program; any
// unnumbered lines execute as the file is read
//

func (ip *interp) loadProgram(filename string) error {

	f, err := os.Open(filename)
	if err != nil {
		if iErr, ok := err.(*os.PathError); ok {
			return fmt.Errorf("cannot open %q (%s)", filename,
				iErr.Err.Error())
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()

		if len(line) > maxLineLen {
			return fmt.Errorf("%s: line longer than %d characters",
				filename, maxLineLen)
		}

		if err := ip.submitLine(line); err != nil {
			printBasicError(err.(*basicError))
			break
		}
	}

	return scanner.Err()
}

//
// Print a fatal message and abort the process.  We write to standard
// error, since the user may have redirected standard output, and we
// would not see it then.  Also, dup os.Stderr, then close os.Stdout
// and os.Stderr in case another goroutine is writing to the terminal.
// Make sure to call cleanupLiners, so the terminal state is sane
//

func crash(msg string) {

	var w *os.File

	cleanupLiners()

	if msg != "" {
		fd, err := syscall.Dup(int(os.Stderr.Fd()))
		if err == nil {
			os.Stdout.Close()
			os.Stderr.Close()
			w = os.NewFile(uintptr(fd), "stderr on new fd")
		} else {
			w = os.Stderr
		}

		fmt.Fprintln(w, msg)
	}

	os.Exit(1)
}
