package strtab

import (
	"testing"
)

func TestTable_InternDedup(t *testing.T) {
	tab := NewTable()
	a := tab.Intern("foo")
	b := tab.Intern("foo")
	if a != b {
		t.Errorf("expected equal names to intern to the same reference")
	}
	if got := tab.RefCount(a); got != 2 {
		t.Errorf("expected refcount 2 after two interns, got %d", got)
	}
	if tab.Text(a) != "foo" {
		t.Errorf("expected text %q, got %q", "foo", tab.Text(a))
	}
}

func TestTable_NFCNormalization(t *testing.T) {
	tab := NewTable()
	// "é" composed vs decomposed must land on one entry.
	composed := tab.Intern("caf\u00e9")
	decomposed := tab.Intern("cafe\u0301")
	if composed != decomposed {
		t.Errorf("expected canonically equal names to share an entry")
	}
	if tab.Live() != 1 {
		t.Errorf("expected a single live entry, got %d", tab.Live())
	}
}

func TestTable_DerefFreesAtZero(t *testing.T) {
	tab := NewTable()
	r := tab.Intern("x")
	tab.Ref(r)
	tab.Deref(r)
	if tab.Live() != 1 {
		t.Fatalf("expected entry to stay live at refcount 1")
	}
	tab.Deref(r)
	if tab.Live() != 0 {
		t.Errorf("expected entry to be freed at refcount 0")
	}
	// A fresh intern of the same text is a new entry.
	r2 := tab.Intern("x")
	if r == r2 {
		t.Errorf("expected a new reference after the old entry died")
	}
}

func TestTable_DerefDeadPanics(t *testing.T) {
	tab := NewTable()
	r := tab.Intern("y")
	tab.Deref(r)
	defer func() {
		if recover() == nil {
			t.Errorf("expected deref of a freed string to panic")
		}
	}()
	tab.Deref(r)
}
