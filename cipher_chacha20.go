package kdbxcore

import (
	"crypto/sha512"

	"golang.org/x/crypto/chacha20"
)

// ChaCha20Cipher implements Cipher as a stateful ChaCha20 keystream.
// Encrypt and Decrypt are the same XOR operation; each call advances the
// keystream, matching Salsa20Cipher's ordering contract.
type ChaCha20Cipher struct {
	stream *chacha20.Cipher
}

// NewChaCha20Cipher constructs a ChaCha20 cipher from an input key of
// arbitrary length by computing SHA-512(key) and splitting it into a
// 32-byte key (bytes [0:32)) and a 12-byte nonce (bytes [32:44)). This is
// the derived construction used for inner protection.
func NewChaCha20Cipher(key []byte) (*ChaCha20Cipher, error) {
	sum := sha512.Sum512(key)
	return NewChaCha20CipherKeyIV(sum[0:32], sum[32:44])
}

// NewChaCha20CipherKeyIV constructs a ChaCha20 cipher from an explicit
// 32-byte key and 12-byte nonce. This is the direct construction used for
// outer file encryption.
func NewChaCha20CipherKeyIV(key, nonce []byte) (*ChaCha20Cipher, error) {
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, NewCryptoError("chacha20", err)
	}
	return &ChaCha20Cipher{stream: stream}, nil
}

// Encrypt XORs plaintext with the next segment of keystream.
func (c *ChaCha20Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	c.stream.XORKeyStream(out, plaintext)
	return out, nil
}

// Decrypt XORs ciphertext with the next segment of keystream (ChaCha20
// encryption and decryption are the same operation).
func (c *ChaCha20Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	c.stream.XORKeyStream(out, ciphertext)
	return out, nil
}
