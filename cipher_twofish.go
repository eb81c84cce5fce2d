package kdbxcore

import (
	"crypto/cipher"

	"golang.org/x/crypto/twofish"
)

// TwofishCipher implements Cipher using the Twofish block cipher in CBC
// mode with PKCS#7 padding. Its contract is identical to AES256Cipher.
type TwofishCipher struct {
	key []byte
	iv  []byte
}

// NewTwofishCipher constructs a Twofish-CBC cipher from a 32-byte key and
// 16-byte IV.
func NewTwofishCipher(key, iv []byte) (*TwofishCipher, error) {
	if len(key) != 32 {
		return nil, NewCryptoError("twofish-cbc", ErrInvalidKeyLength)
	}
	if len(iv) != twofish.BlockSize {
		return nil, NewCryptoError("twofish-cbc", ErrInvalidIVLength)
	}
	return &TwofishCipher{key: key, iv: iv}, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it under Twofish-CBC.
func (c *TwofishCipher) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := twofish.NewCipher(c.key)
	if err != nil {
		return nil, NewCryptoError("twofish-cbc", err)
	}

	padded := pkcs7Pad(plaintext, twofish.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts ciphertext under Twofish-CBC and strips PKCS#7 padding.
func (c *TwofishCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%twofish.BlockSize != 0 {
		return nil, NewCryptoError("twofish-cbc", ErrBadPadding)
	}

	block, err := twofish.NewCipher(c.key)
	if err != nil {
		return nil, NewCryptoError("twofish-cbc", err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, twofish.BlockSize)
	if err != nil {
		return nil, NewCryptoError("twofish-cbc", err)
	}
	return unpadded, nil
}
