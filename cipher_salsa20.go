package kdbxcore

import (
	"golang.org/x/crypto/salsa20"
)

// salsa20InnerIV is the fixed 8-byte IV mandated for Salsa20 inner
// protection by the format specification.
var salsa20InnerIV = []byte{0xE8, 0x30, 0x09, 0x4B, 0x97, 0x20, 0x5D, 0x2A}

// Salsa20Cipher implements Cipher as a stateful Salsa20 keystream. Encrypt
// and Decrypt are the same XOR operation; each call advances the
// keystream position, so field values must be processed in the exact
// order they will be consumed on the other side.
type Salsa20Cipher struct {
	key   [32]byte
	nonce []byte
	pos   int
}

// NewSalsa20Cipher constructs a Salsa20 stream cipher from a 32-byte key,
// using the format's fixed inner-protection IV.
func NewSalsa20Cipher(key []byte) (*Salsa20Cipher, error) {
	if len(key) != 32 {
		return nil, NewCryptoError("salsa20", ErrInvalidKeyLength)
	}
	c := &Salsa20Cipher{nonce: salsa20InnerIV}
	copy(c.key[:], key)
	return c, nil
}

// transform XORs data against the next len(data) bytes of keystream,
// advancing the cipher's position. Salsa20's one-shot XORKeyStream always
// starts a fresh keystream at offset zero, so the full keystream prefix up
// to the new position is regenerated each call and only its tail is used;
// correctness does not depend on any undocumented resume behavior.
func (c *Salsa20Cipher) transform(data []byte) []byte {
	end := c.pos + len(data)
	stream := make([]byte, end)
	salsa20.XORKeyStream(stream, stream, c.nonce, &c.key)

	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ stream[c.pos+i]
	}
	c.pos = end
	return out
}

// Encrypt XORs plaintext with the next segment of keystream.
func (c *Salsa20Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	return c.transform(plaintext), nil
}

// Decrypt XORs ciphertext with the next segment of keystream (Salsa20
// encryption and decryption are the same operation).
func (c *Salsa20Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	return c.transform(ciphertext), nil
}
