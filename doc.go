// Package kdbxcore implements the cryptographic and structural core of a
// KeePass-family KDBX password database: the cipher and key-derivation
// abstractions that protect a database's contents, and the XML codec that
// maps between the in-memory Group/Entry tree and its on-disk document
// shape.
//
// # Overview
//
// A KDBX file is a binary envelope (out of scope here) wrapping a plaintext
// XML document. Certain string fields inside that document ("protected"
// values, e.g. passwords) are additionally encrypted by an inner stream
// cipher keyed from the envelope's own key material. kdbxcore covers:
//
//   - Cipher: a uniform Encrypt/Decrypt contract over AES-256-CBC,
//     Twofish-CBC, Salsa20, ChaCha20, and a no-op Plain cipher.
//   - KDF: a uniform TransformKey contract over AES-KDF and Argon2d.
//   - The data model (Database, Meta, Group, Entry, Value, AutoType, Times).
//   - The XML codec that serializes/parses that model, invoking the inner
//     Cipher for protected values in document order.
//
// # Basic Usage
//
//	inner, err := kdbxcore.NewSalsa20Cipher(innerKey)
//	if err != nil {
//	    panic(err)
//	}
//
//	root, meta, err := kdbxcore.ParseXML(xmlBytes, inner)
//	if err != nil {
//	    panic(err)
//	}
//
//	// ... inspect or mutate root/meta ...
//
//	out, err := kdbxcore.WriteXML(&kdbxcore.Database{Meta: meta, Root: root}, freshInner)
//
// # Security Considerations
//
// Protected Against:
//   - Plaintext leakage of protected fields through a Database's printed
//     or debug representation (SecureBytes never prints its contents)
//   - Stale inner-cipher state leaking across documents, since every
//     constructor returns a fresh instance bound to one key/IV
//
// Not Protected Against:
//   - Memory dumps while a Database is live in process memory
//   - Side-channel attacks (timing, cache)
//   - Assembly of the composite key from passwords/keyfiles (external)
//
// # Key Derivation
//
// The package supports two key-stretching functions, selected by the
// outer envelope and applied to a 32-byte composite key:
//
// AES-KDF:
//   - Encrypts the composite key, block by block, Rounds times under an
//     AES-256 cipher keyed by Seed, then hashes the result with SHA-256
//   - CPU-bound only; round count controls cost
//
// Argon2d:
//   - Memory-hard, data-dependent variant of Argon2 (KDBX4 default)
//   - Configurable memory, iteration count, and parallelism
//
// # Concurrency
//
// Cipher and KDF instances are not safe for concurrent use. Block-cipher
// constructors rebuild state per call; stream ciphers hold mutable
// keystream state that advances with every Encrypt/Decrypt call and must
// be consumed in the same order on encode and decode.
package kdbxcore
