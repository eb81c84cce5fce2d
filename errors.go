package kdbxcore

import (
	"errors"
	"fmt"
)

// CryptoError wraps a failure from a cipher or KDF primitive: invalid key or
// IV length, a padding error on decrypt, a stream-cipher construction
// failure, or an Argon2 failure.
type CryptoError struct {
	Op      string // "aes-cbc", "twofish-cbc", "salsa20", "chacha20", "aes-kdf", "argon2d", ...
	Message string
	Err     error
}

func (e *CryptoError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("crypto error: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("crypto error: %s", e.Message)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// DatabaseIntegrityError represents a structural violation in the decoded
// or encoded document: bad Base64, an unrecoverable unknown element, a
// missing required text node, or a timestamp parse failure. Any CryptoError
// encountered by the codec is wrapped as a DatabaseIntegrityError before it
// is surfaced to callers.
type DatabaseIntegrityError struct {
	Context string // e.g. "History", "String value", "Times"
	Message string
	Err     error
}

func (e *DatabaseIntegrityError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("database integrity error: %s: %s", e.Context, e.Message)
	}
	return fmt.Sprintf("database integrity error: %s", e.Message)
}

func (e *DatabaseIntegrityError) Unwrap() error {
	return e.Err
}

// Sentinel errors for simple, non-parameterized failures.
var (
	ErrInvalidKeyLength   = errors.New("invalid key length")
	ErrInvalidIVLength    = errors.New("invalid IV length")
	ErrInvalidNonceLength = errors.New("invalid nonce length")
	ErrBadPadding         = errors.New("invalid PKCS#7 padding")
	ErrUnsupportedKDFVer  = errors.New("unsupported KDF version")
	ErrMissingText        = errors.New("required element text missing")
)

// NewCryptoError wraps err as a CryptoError attributed to op.
func NewCryptoError(op string, err error) error {
	return &CryptoError{Op: op, Message: err.Error(), Err: err}
}

// NewDatabaseIntegrityError wraps err as a DatabaseIntegrityError attributed
// to context. A CryptoError passed in is still wrapped rather than
// unwrapped: the codec always surfaces a single DatabaseIntegrityError to
// its caller, per the fatal/non-fatal policy.
func NewDatabaseIntegrityError(context string, err error) error {
	return &DatabaseIntegrityError{Context: context, Message: err.Error(), Err: err}
}

// IsCryptoError reports whether err is or wraps a *CryptoError.
func IsCryptoError(err error) bool {
	var ce *CryptoError
	return errors.As(err, &ce)
}

// IsDatabaseIntegrityError reports whether err is or wraps a
// *DatabaseIntegrityError.
func IsDatabaseIntegrityError(err error) bool {
	var de *DatabaseIntegrityError
	return errors.As(err, &de)
}
