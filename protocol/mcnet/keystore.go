package mcnet

// Grounded on github.com/go-mclib/protocol/crypto/rsa_keys.go (SPKI DER
// marshal via x509.MarshalPKIXPublicKey) and the original Rust
// coms/src/key_store.rs (RSA-1024, DER public key export, no rotation, no
// key-agility beyond the single process-lifetime keypair).

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
)

// rsaKeySize is the Minecraft protocol's fixed RSA modulus size.
const rsaKeySize = 1024

// Keystore holds exactly one RSA-1024 private key for the lifetime of a
// server process. It is immutable after construction and safe to share
// read-only across every connection's goroutine.
type Keystore struct {
	private   *rsa.PrivateKey
	publicDER []byte
}

// NewKeystore generates a fresh RSA-1024 keypair.
func NewKeystore() (*Keystore, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeySize)
	if err != nil {
		return nil, ErrCrypto
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, ErrCrypto
	}

	return &Keystore{private: key, publicDER: der}, nil
}

// PublicDER returns the SubjectPublicKeyInfo DER encoding of the public key.
// The returned slice must not be mutated by callers; it is byte-stable
// across calls.
func (k *Keystore) PublicDER() []byte {
	return k.publicDER
}

// Decrypt performs a PKCS#1 v1.5 decryption with the private key. Failures
// are collapsed to a single ErrCrypto so no timing or padding-oracle signal
// reaches the caller.
func (k *Keystore) Decrypt(ciphertext []byte) ([]byte, error) {
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, k.private, ciphertext)
	if err != nil {
		return nil, ErrCrypto
	}
	return plaintext, nil
}

// EncryptWith performs a PKCS#1 v1.5 encryption under a peer-supplied SPKI
// DER public key. Used only by the proxy variant, which encrypts its fresh
// shared secret and the upstream's verify token under the upstream server's
// key.
func EncryptWith(peerPublicDER []byte, plaintext []byte) ([]byte, error) {
	pub, err := x509.ParsePKIXPublicKey(peerPublicDER)
	if err != nil {
		return nil, ErrCrypto
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrCrypto
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, plaintext)
	if err != nil {
		return nil, ErrCrypto
	}
	return ciphertext, nil
}
