package kdbxcore

import (
	"crypto/aes"
	"crypto/cipher"
)

// AES256Cipher implements Cipher using AES-256 in CBC mode with PKCS#7
// padding. Encrypt and Decrypt each construct a fresh block-cipher/CBC
// state from the stored key and IV, so repeated calls with identical
// parameters are deterministic.
type AES256Cipher struct {
	key []byte
	iv  []byte
}

// NewAES256Cipher constructs an AES-256-CBC cipher from a 32-byte key and
// 16-byte IV.
func NewAES256Cipher(key, iv []byte) (*AES256Cipher, error) {
	if len(key) != 32 {
		return nil, NewCryptoError("aes-cbc", ErrInvalidKeyLength)
	}
	if len(iv) != aes.BlockSize {
		return nil, NewCryptoError("aes-cbc", ErrInvalidIVLength)
	}
	return &AES256Cipher{key: key, iv: iv}, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it under AES-256-CBC.
func (c *AES256Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, NewCryptoError("aes-cbc", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext under AES-256-CBC and strips PKCS#7 padding.
func (c *AES256Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, NewCryptoError("aes-cbc", ErrBadPadding)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, NewCryptoError("aes-cbc", err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, NewCryptoError("aes-cbc", err)
	}
	return unpadded, nil
}
