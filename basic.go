package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"syscall"
)

func main() {

	//
	// We need to close the Liner instances in reverse order, to make
	// sure we end up back in normal (cooked) terminal mode
	//

	defer func() {
		cleanupLiners()
	}()

	checkTerminal()

	setupLiners()

	ip := newInterp(os.Stdout, readInputLine)

	switch len(os.Args) {
	default:
		crash("Usage: tinybasic [program]")

	case 1:
		// nothing to do

	case 2:
		if fname, ok := validateProgramFilename(os.Args[1]); !ok {
			fmt.Println("Invalid filename!")
		} else if err := ip.loadProgram(fname); err != nil {
			fmt.Println(err)
		}
	}

	printVersionInfo()

	//
	// Run the signal handling code in a goroutine
	//

	go sigHdlr(ip)

	//
	// Loop forever, or until we quit
	//

	for !ip.exiting {
		line, err := readLine(commandLiner, myPrompt, true)
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Println(err)
			continue
		}

		call(func() {
			if err := ip.submitLine(line); err != nil {
				printBasicError(err.(*basicError))
			}
		})
	}
}

func printVersionInfo() {

	fmt.Printf("Tiny BASIC version %s - built %s\n", VERSION,
		buildTimestampStr)
}

func writeGoroutineStacks() {

	name := "goroutines-stacks"
	mode := (os.O_CREATE | os.O_WRONLY)

	dumpFile, err := os.OpenFile(name, mode, 0644)
	if err != nil {
		iErr := err.(*os.PathError)
		fmt.Fprintf(os.Stderr, "Unable to open %s (%s)\n",
			name, iErr.Err.Error())
		return
	}

	_ = pprof.Lookup("goroutine").WriteTo(dumpFile, 2)

	m := fmt.Sprintf("Dumping goroutine stacks to %v and exiting", name)

	crash(m)
}

func sigHdlr(ip *interp) {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGQUIT)
	signal.Notify(ch, syscall.SIGINT)

	for {
		sig := <-ch

		switch sig {

		default:
			crash(fmt.Sprintf("Unexpected signal %d", sig))

		case syscall.SIGQUIT:
			writeGoroutineStacks() // does not return

		case syscall.SIGINT:
			ip.interrupted = true
		}
	}
}

//
// This procedure is called by the panic deferred recovery function.
// Two expected cases: a call to fatalError / basicAssert, which panics
// with an internalError carrying the caller's file and line, and an
// implicit panic raised by the Go runtime.  For the latter we grovel
// for the code that panicked, not the caller of panic, since that is
// somewhere inside Go.  The best thing I've been able to come up with
// is to scan the call stack, looking for a function named
// 'runtime.gopanic', and picking the next non-runtime frame
//

func decodePanic(e any) {

	var frame runtime.Frame
	var more bool
	var panicSeen bool
	var panicFrame runtime.Frame
	var panicCount int

	switch e := e.(type) {
	default:
		pcs := make([]uintptr, 99)

		_ = pcs[:runtime.Callers(1, pcs)]

		frames := runtime.CallersFrames(pcs)

		for {
			frame, more = frames.Next()
			if !more {
				break
			}

			if frame.Function == "runtime.gopanic" {
				panicSeen = true
				panicCount++
			} else if panicSeen {
				if !strings.HasPrefix(frame.Function, "runtime.") {
					panicFrame = frame
					panicSeen = false
				}
			}
		}

		if panicCount == 0 { // impossible?
			crash("Unable to locate panic caller")
		}

		fmt.Printf("%v at %s line %d\n", e, filepath.Base(panicFrame.File),
			panicFrame.Line)

		debug.PrintStack()

	case *internalError:
		fmt.Printf("%q at %s line %d\n", e.msg, filepath.Base(e.file), e.line)

		debug.PrintStack()
	}
}

//
// Wrapper routine for a function.  We need this so that panic calls
// can be caught and decoded before returning to our caller
//

func call(f func()) {

	defer func() {
		err := recover()
		if err != nil {
			decodePanic(err)
		}
	}()

	f()
}
