package main

import (
	"fmt"
)

func (ip *interp) executeHelp() {

	fmt.Fprintln(ip.out, "BYE            exit the interpreter")
	fmt.Fprintln(ip.out, "CLEAR          erase program and variables")
	fmt.Fprintln(ip.out, "END            stop the running program")
	fmt.Fprintln(ip.out, "GOSUB expr     call the subroutine at a line")
	fmt.Fprintln(ip.out, "GOTO expr      jump to a line")
	fmt.Fprintln(ip.out, "HELP           print this text")
	fmt.Fprintln(ip.out, "IF cmp THEN s  conditionally execute a statement")
	fmt.Fprintln(ip.out, "INPUT var-list read values into variables")
	fmt.Fprintln(ip.out, "LET var = expr assign to a variable")
	fmt.Fprintln(ip.out, "LIST           print the stored program")
	fmt.Fprintln(ip.out, "PRINT list     print strings and expressions")
	fmt.Fprintln(ip.out, "RETURN         return from a subroutine")
	fmt.Fprintln(ip.out, "RUN            execute the stored program")
	fmt.Fprintln(ip.out, "STATS          toggle execution statistics")
	fmt.Fprintln(ip.out, "TRACE what     toggle EXEC, VARS or DUMP tracing")
}
