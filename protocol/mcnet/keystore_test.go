package mcnet

import (
	"bytes"
	"testing"
)

func TestKeystorePublicDERStable(t *testing.T) {
	ks, err := NewKeystore()
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	a := ks.PublicDER()
	b := ks.PublicDER()
	if !bytes.Equal(a, b) {
		t.Fatal("PublicDER is not byte-stable across calls")
	}
}

func TestKeystoreDecryptRoundTrip(t *testing.T) {
	ks, err := NewKeystore()
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	secret := []byte("0123456789ABCDEF") // 16 bytes
	ciphertext, err := EncryptWith(ks.PublicDER(), secret)
	if err != nil {
		t.Fatalf("EncryptWith: %v", err)
	}

	plaintext, err := ks.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(plaintext, secret) {
		t.Fatalf("got %q, want %q", plaintext, secret)
	}
}

func TestKeystoreDecryptFailureIsUniform(t *testing.T) {
	ks, err := NewKeystore()
	if err != nil {
		t.Fatalf("NewKeystore: %v", err)
	}

	_, err = ks.Decrypt([]byte("not a valid ciphertext"))
	if err != ErrCrypto {
		t.Fatalf("got %v, want ErrCrypto", err)
	}
}

func TestEncryptWithRejectsNonRSAOrGarbageDER(t *testing.T) {
	_, err := EncryptWith([]byte("garbage"), []byte("secret"))
	if err != ErrCrypto {
		t.Fatalf("got %v, want ErrCrypto", err)
	}
}
