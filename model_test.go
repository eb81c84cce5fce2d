package kdbxcore

import "testing"

func TestFieldListPreservesInsertionOrder(t *testing.T) {
	f := NewFieldList()
	f.Set("Title", UnprotectedValue{Text: "example"})
	f.Set("UserName", UnprotectedValue{Text: "alice"})
	f.Set("Password", ProtectedValue{Plaintext: NewSecureBytes([]byte("hunter2"))})

	want := []string{"Title", "UserName", "Password"}
	got := f.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFieldListOverwritePreservesPosition(t *testing.T) {
	f := NewFieldList()
	f.Set("Title", UnprotectedValue{Text: "first"})
	f.Set("UserName", UnprotectedValue{Text: "alice"})
	f.Set("Title", UnprotectedValue{Text: "second"})

	want := []string{"Title", "UserName"}
	got := f.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: got %q want %q", i, got[i], want[i])
		}
	}

	v, ok := f.Get("Title")
	if !ok {
		t.Fatal("Title missing after overwrite")
	}
	if uv, ok := v.(UnprotectedValue); !ok || uv.Text != "second" {
		t.Fatalf("got %#v want UnprotectedValue{Text: \"second\"}", v)
	}
}

func TestFieldListGetMissing(t *testing.T) {
	f := NewFieldList()
	if _, ok := f.Get("Nonexistent"); ok {
		t.Fatal("expected ok=false for missing key")
	}
}

func TestFieldListLen(t *testing.T) {
	f := NewFieldList()
	if f.Len() != 0 {
		t.Fatalf("got %d want 0", f.Len())
	}
	f.Set("Title", UnprotectedValue{Text: "x"})
	f.Set("Title", UnprotectedValue{Text: "y"})
	f.Set("Notes", UnprotectedValue{Text: "z"})
	if f.Len() != 2 {
		t.Fatalf("got %d want 2", f.Len())
	}
}

func TestValueVariantsAreDistinctTypes(t *testing.T) {
	var values []Value = []Value{
		UnprotectedValue{Text: "visible"},
		ProtectedValue{Plaintext: NewSecureBytes([]byte("secret"))},
		BytesValue{Data: []byte{0x01, 0x02}},
	}
	for _, v := range values {
		switch v.(type) {
		case UnprotectedValue, ProtectedValue, BytesValue:
			// expected
		default:
			t.Fatalf("unexpected Value implementation: %#v", v)
		}
	}
}

func TestNewGroupAndEntryInitializeMaps(t *testing.T) {
	g := NewGroup()
	if g.UnhandledFields == nil {
		t.Fatal("NewGroup must initialize UnhandledFields")
	}
	if g.Times == nil {
		t.Fatal("NewGroup must initialize Times")
	}

	e := NewEntry()
	if e.UnhandledFields == nil {
		t.Fatal("NewEntry must initialize UnhandledFields")
	}
	if e.Times == nil {
		t.Fatal("NewEntry must initialize Times")
	}
	if e.Fields.Len() != 0 {
		t.Fatalf("got %d want 0", e.Fields.Len())
	}
}
