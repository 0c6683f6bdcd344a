package main

import (
	"fmt"
)

//
// The variable bank: 26 signed 16-bit cells, one per letter A-Z, all
// zero at interpreter start.  There is no dynamic symbol table; a
// variable that was never assigned reads as 0, never an error
//

func varName(idx int) string {

	basicAssert(idx >= 0 && idx < numVariables, "variable index out of range")

	return string(rune('A' + idx))
}

func (ip *interp) fetchVar(idx int) int16 {

	return ip.vars[idx]
}

func (ip *interp) storeVar(idx int, val int16) {

	if ip.traceVars && ip.vars[idx] != val {
		traceVar(ip, varName(idx), ip.vars[idx], val)
	}

	ip.vars[idx] = val
}

func (ip *interp) clearVariables() {

	ip.vars = [numVariables]int16{}
}

//
// Print variable modification trace records
//

func traceVar(ip *interp, name string, oval, nval int16) {

	fmt.Fprintf(ip.out, "Variable %s changed from %d to %d\n",
		name, oval, nval)
}
