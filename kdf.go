package kdbxcore

import (
	"crypto/aes"
	"crypto/sha256"

	"github.com/aead/argon2"
)

// KDF is the uniform key-stretching contract: a pure function of its
// parameters and a 32-byte composite key, returning a 32-byte transformed
// key. Implementations must not retain state between calls.
type KDF interface {
	TransformKey(compositeKey [32]byte) ([32]byte, error)
}

// AESKDF derives a key by encrypting the composite key's two 16-byte
// halves Rounds times, independently, under an AES-256 cipher keyed by
// Seed, then hashing the concatenated result with SHA-256.
type AESKDF struct {
	Seed   []byte
	Rounds uint64
}

// TransformKey implements KDF.
func (k AESKDF) TransformKey(compositeKey [32]byte) ([32]byte, error) {
	var out [32]byte

	block, err := aes.NewCipher(k.Seed)
	if err != nil {
		return out, NewCryptoError("aes-kdf", err)
	}

	var block1, block2 [16]byte
	copy(block1[:], compositeKey[:16])
	copy(block2[:], compositeKey[16:])

	for i := uint64(0); i < k.Rounds; i++ {
		block.Encrypt(block1[:], block1[:])
		block.Encrypt(block2[:], block2[:])
	}

	h := sha256.New()
	h.Write(block1[:])
	h.Write(block2[:])
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Argon2 version identifiers recognized by Argon2KDF, matching the
// reference algorithm's on-disk version byte.
const (
	Argon2Version10 = 0x10
	Argon2Version13 = 0x13
)

// Argon2KDF derives a key using Argon2d, the data-dependent variant of
// Argon2 used by KDBX4. Memory is expressed in bytes and converted to
// kibibytes for the underlying primitive, matching the reference
// algorithm's mem_cost unit.
type Argon2KDF struct {
	Memory      uint64 // bytes
	Salt        []byte
	Iterations  uint64
	Parallelism uint8
	Version     uint8 // Argon2Version10 or Argon2Version13
}

// TransformKey implements KDF. It rejects a Version outside
// {Argon2Version10, Argon2Version13}: a codec that silently accepted an
// unrecognized version byte would derive a key no other KDBX reader could
// reproduce from the same header. The version is threaded into the
// derivation itself (v1.0 and v1.3 differ in their internal compression
// function, not just in a header byte), via the Config/Mode form of
// aead/argon2 rather than its simple Key helper, which hard-codes v1.3
// and offers no version parameter.
func (k Argon2KDF) TransformKey(compositeKey [32]byte) ([32]byte, error) {
	var out [32]byte

	var version argon2.Version
	switch k.Version {
	case Argon2Version10:
		version = argon2.Version10
	case Argon2Version13:
		version = argon2.Version13
	default:
		return out, NewCryptoError("argon2d", ErrUnsupportedKDFVer)
	}

	cfg := argon2.Config{
		HashLength:  32,
		TimeCost:    uint32(k.Iterations),
		MemoryCost:  uint32(k.Memory / 1024),
		Parallelism: k.Parallelism,
		Mode:        argon2.ModeArgon2d,
		Version:     version,
	}
	key := cfg.Hash(compositeKey[:], k.Salt)
	copy(out[:], key)
	return out, nil
}
