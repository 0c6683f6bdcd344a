package main

import (
	"github.com/danswartzendruber/avl"
	"github.com/goforj/godump"
)

//
// A set of wrapper routines to the AVL package.  We do this to hide
// the AVL interface from the interpreter code, as well as providing
// debug/trace hooks.  The tree is the program store: one codeLine
// node per stored line, ordered by line number, so "next line" during
// a run is an in-order successor walk
//

func cmpInt16Key(key any, node any) int {

	return cmpInt16Items(key.(int16), node.(*codeLine).lineNo)
}

func cmpInt16Node(node1, node2 any) int {

	return cmpInt16Items(node1.(*codeLine).lineNo, node2.(*codeLine).lineNo)
}

func cmpInt16Items(item1, item2 int16) int {

	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	} else {
		return 0
	}
}

func (ip *interp) firstLine() *codeLine {

	p := avl.AvlTreeFirstInOrder(ip.program)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

func (ip *interp) lookupLine(lineNo int16) *codeLine {

	p := avl.AvlTreeLookup(ip.program, lineNo, cmpInt16Key)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

func (ip *interp) nextLine(line *codeLine) *codeLine {

	p := avl.AvlTreeNextInOrder(&line.avl)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

//
// Find the smallest stored line number strictly greater than lineNo.
// The caller guarantees lineNo is a stored key (jump targets are
// validated before control transfers)
//

func (ip *interp) lineAfter(lineNo int16) *codeLine {

	line := ip.lookupLine(lineNo)

	basicAssert(line != nil, "lineAfter on unstored line")

	return ip.nextLine(line)
}

//
// Store a line, overwriting any prior entry with the same number.
// The text is the statement body exactly as submitted, so LIST can
// re-emit it unchanged
//

func (ip *interp) insertLine(lineNo int16, text string) {

	if old := ip.lookupLine(lineNo); old != nil {
		avl.AvlTreeRemove(&ip.program, &old.avl)
	}

	line := &codeLine{lineNo: lineNo, text: text}

	if ip.traceDump {
		godump.Dump(line)
	}

	p := avl.AvlTreeInsert(&ip.program, &line.avl, line, cmpInt16Node)
	if p != nil {
		fatalError("Line %d already in tree???", lineNo)
	}
}

func (ip *interp) eraseLine(lineNo int16) {

	if line := ip.lookupLine(lineNo); line != nil {
		avl.AvlTreeRemove(&ip.program, &line.avl)
	}
}

func (ip *interp) eraseProgram() {

	for line := ip.firstLine(); line != nil; line = ip.firstLine() {
		avl.AvlTreeRemove(&ip.program, &line.avl)
	}
}
