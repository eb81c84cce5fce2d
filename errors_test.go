package kdbxcore

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCryptoErrorWrapsAndUnwraps(t *testing.T) {
	err := NewCryptoError("aes-cbc", ErrBadPadding)
	if !errors.Is(err, ErrBadPadding) {
		t.Fatal("expected wrapped sentinel to be discoverable via errors.Is")
	}
	if !IsCryptoError(err) {
		t.Fatal("expected IsCryptoError to report true")
	}
	if IsDatabaseIntegrityError(err) {
		t.Fatal("a CryptoError must not also report as a DatabaseIntegrityError")
	}
}

func TestNewDatabaseIntegrityErrorWrapsAndUnwraps(t *testing.T) {
	err := NewDatabaseIntegrityError("History", ErrMissingText)
	if !errors.Is(err, ErrMissingText) {
		t.Fatal("expected wrapped sentinel to be discoverable via errors.Is")
	}
	if !IsDatabaseIntegrityError(err) {
		t.Fatal("expected IsDatabaseIntegrityError to report true")
	}
	if IsCryptoError(err) {
		t.Fatal("a DatabaseIntegrityError must not also report as a CryptoError")
	}
}

func TestDatabaseIntegrityErrorWrapsCryptoError(t *testing.T) {
	inner := NewCryptoError("salsa20", ErrInvalidKeyLength)
	outer := NewDatabaseIntegrityError("protected value", inner)

	if !IsDatabaseIntegrityError(outer) {
		t.Fatal("expected outer error to report as DatabaseIntegrityError")
	}
	if !errors.Is(outer, ErrInvalidKeyLength) {
		t.Fatal("expected errors.Is to see through both wrapping layers")
	}
	var ce *CryptoError
	if !errors.As(outer, &ce) {
		t.Fatal("expected errors.As to find the wrapped CryptoError")
	}
}

func TestErrorMessagesIncludeContext(t *testing.T) {
	err := NewCryptoError("chacha20", ErrInvalidNonceLength)
	if got := err.Error(); !strings.Contains(got, "chacha20") {
		t.Fatalf("expected error message to name its op, got %q", got)
	}

	dberr := NewDatabaseIntegrityError("Times", ErrMissingText)
	if got := dberr.Error(); !strings.Contains(got, "Times") {
		t.Fatalf("expected error message to name its context, got %q", got)
	}
}
