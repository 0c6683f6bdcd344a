package main

import (
	"testing"
)

func storedLineNos(ip *interp) []int16 {

	var nos []int16

	for line := ip.firstLine(); line != nil; line = ip.nextLine(line) {
		nos = append(nos, line.lineNo)
	}

	return nos
}

func wantLineNos(t *testing.T, ip *interp, want ...int16) {
	t.Helper()

	got := storedLineNos(ip)
	if len(got) != len(want) {
		t.Fatalf("stored lines: want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stored lines: want %v, got %v", want, got)
		}
	}
}

func TestFreshInterpreterHasEmptyStore(t *testing.T) {
	ip, out := newTestInterp()

	if first := ip.firstLine(); first != nil {
		t.Fatalf("firstLine on fresh store: %v", first)
	}
	if line := ip.lookupLine(10); line != nil {
		t.Fatalf("lookupLine on fresh store: %v", line)
	}

	// every store entry point must accept the empty tree
	submit(t, ip, "LIST", "10")
	wantOutput(t, out, "")
	ip.eraseProgram()
	submitFault(t, ip, "RUN", ENOPROGRAM)

	// and the first insert must grow it from empty
	ip.insertLine(10, "PRINT 1")
	wantLineNos(t, ip, 10)
}

func TestInsertOrdersByLineNumber(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(30, "PRINT 3")
	ip.insertLine(10, "PRINT 1")
	ip.insertLine(20, "PRINT 2")

	wantLineNos(t, ip, 10, 20, 30)
}

func TestInsertOverwritesSameNumber(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(10, "PRINT 1")
	ip.insertLine(10, "PRINT 99")

	wantLineNos(t, ip, 10)

	if line := ip.lookupLine(10); line.text != "PRINT 99" {
		t.Fatalf("text after overwrite: %q", line.text)
	}
}

func TestLookupAbsentLine(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(10, "PRINT 1")

	if line := ip.lookupLine(20); line != nil {
		t.Fatalf("lookup of absent line returned %v", line)
	}
}

func TestEraseLine(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(10, "PRINT 1")
	ip.insertLine(20, "PRINT 2")

	ip.eraseLine(10)
	wantLineNos(t, ip, 20)

	// erasing an absent line is a no-op
	ip.eraseLine(10)
	wantLineNos(t, ip, 20)
}

func TestLineAfter(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(10, "PRINT 1")
	ip.insertLine(25, "PRINT 2")
	ip.insertLine(40, "PRINT 3")

	if next := ip.lineAfter(10); next == nil || next.lineNo != 25 {
		t.Fatalf("lineAfter(10): %v", next)
	}
	if next := ip.lineAfter(25); next == nil || next.lineNo != 40 {
		t.Fatalf("lineAfter(25): %v", next)
	}
	if next := ip.lineAfter(40); next != nil {
		t.Fatalf("lineAfter(40): %v", next)
	}
}

func TestEraseProgram(t *testing.T) {
	ip, _ := newTestInterp()

	for no := int16(10); no <= 100; no += 10 {
		ip.insertLine(no, "PRINT 1")
	}

	ip.eraseProgram()

	wantLineNos(t, ip)

	if first := ip.firstLine(); first != nil {
		t.Fatalf("firstLine after erase: %v", first)
	}
}

func TestBoundaryLineNumbers(t *testing.T) {
	ip, _ := newTestInterp()

	ip.insertLine(minLineNo, "PRINT 1")
	ip.insertLine(maxLineNo, "PRINT 2")

	wantLineNos(t, ip, minLineNo, maxLineNo)
}
