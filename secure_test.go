package kdbxcore

import (
	"fmt"
	"strings"
	"testing"
)

func TestSecureBytesBytesAndLen(t *testing.T) {
	s := NewSecureBytes([]byte("hunter2"))
	if s.Len() != 7 {
		t.Fatalf("got %d want 7", s.Len())
	}
	if string(s.Bytes()) != "hunter2" {
		t.Fatalf("got %q want %q", s.Bytes(), "hunter2")
	}
}

func TestSecureBytesEqual(t *testing.T) {
	a := NewSecureBytes([]byte("same"))
	b := NewSecureBytes([]byte("same"))
	c := NewSecureBytes([]byte("diff"))
	if !a.Equal(b) {
		t.Fatal("expected equal SecureBytes to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different SecureBytes to compare unequal")
	}
}

func TestSecureBytesEqualNilSafe(t *testing.T) {
	var a, b *SecureBytes
	if !a.Equal(b) {
		t.Fatal("two nil SecureBytes should compare equal")
	}
	c := NewSecureBytes([]byte("x"))
	if a.Equal(c) || c.Equal(a) {
		t.Fatal("nil and non-empty SecureBytes should not compare equal")
	}
}

func TestSecureBytesZero(t *testing.T) {
	s := NewSecureBytes([]byte("hunter2"))
	s.Zero()
	for i, b := range s.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %x", i, b)
		}
	}
}

func TestSecureBytesNeverPrintsPlaintext(t *testing.T) {
	s := NewSecureBytes([]byte("top-secret-value"))
	rendered := fmt.Sprintf("%v %s %#v", s, s, s)
	if strings.Contains(rendered, "top-secret-value") {
		t.Fatalf("plaintext leaked through formatting: %q", rendered)
	}
}

func TestSecureBytesNilMethodsSafe(t *testing.T) {
	var s *SecureBytes
	if s.Len() != 0 {
		t.Fatalf("got %d want 0", s.Len())
	}
	if s.Bytes() != nil {
		t.Fatal("expected nil Bytes() on nil SecureBytes")
	}
	s.Zero() // must not panic
}
