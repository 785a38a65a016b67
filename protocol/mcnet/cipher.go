package mcnet

// Grounded on github.com/go-mclib/protocol/crypto (cfb8.go, encryption.go),
// itself derived from Tnze/go-mc's CFB8 implementation. AES-128/CFB8 keyed
// with key == iv == the 16-byte shared secret is the protocol's quirk; no
// stdlib cipher.Stream implements an 8-bit segment size, so the keystream is
// hand-rolled here exactly as upstream does it.

import (
	"crypto/aes"
	"crypto/cipher"
	"io"
	"sync"
)

type cfb8 struct {
	block   cipher.Block
	iv      []byte
	tmp     []byte
	decrypt bool
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	ivCopy := make([]byte, len(iv))
	copy(ivCopy, iv)
	return &cfb8{
		block:   block,
		iv:      ivCopy,
		tmp:     make([]byte, block.BlockSize()),
		decrypt: decrypt,
	}
}

// xorKeyStream transforms src into dst one byte at a time. The block size is
// 1 byte, so no residue buffering is needed across calls: every input byte
// produces exactly one output byte, and dst/src may overlap completely (an
// in-place transform).
func (c *cfb8) xorKeyStream(dst, src []byte) {
	blockSize := len(c.iv)
	for i := range src {
		copy(c.tmp, c.iv)
		c.block.Encrypt(c.iv, c.iv)
		keystreamByte := c.iv[0]

		in := src[i]
		out := in ^ keystreamByte
		dst[i] = out

		copy(c.iv, c.tmp[1:])
		if c.decrypt {
			c.iv[blockSize-1] = in
		} else {
			c.iv[blockSize-1] = out
		}
	}
}

// StreamCipher is a half-duplex AES-128/CFB8 transform. It is a pass-through
// until Enable is called; Enable is idempotent-checked (enabled is latched)
// and there is no way to disable it afterward, matching the protocol: once a
// Minecraft connection encrypts, it never goes back to plaintext.
type StreamCipher struct {
	mu      sync.Mutex
	stream  *cfb8
	enabled bool
}

// Enable keys the cipher with key used as both the AES-128 key and the CFB8
// IV, per the protocol's key==iv convention. Calling Enable more than once
// is a no-op after the first call.
func (c *StreamCipher) Enable(key []byte, decrypt bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return nil
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	c.stream = newCFB8(block, key, decrypt)
	c.enabled = true
	return nil
}

// Transform applies the cipher in place over buf if enabled, otherwise it is
// a no-op. The caller must pass the exact byte range that just crossed the
// connection boundary — no reordering or coalescing across Enable calls.
func (c *StreamCipher) Transform(buf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.stream.xorKeyStream(buf, buf)
}

// Enabled reports whether the cipher has been latched on.
func (c *StreamCipher) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// CipherConn wraps a duplex byte stream with independent read-side and
// write-side AES-128/CFB8 ciphers. Before Enable is called on either half it
// is a transparent pass-through. Every byte that crosses the boundary is
// transformed exactly once: reads are decrypted in place, writes are
// encrypted in a copy of the caller's buffer.
type CipherConn struct {
	rw     io.ReadWriter
	reader StreamCipher
	writer StreamCipher
}

// NewCipherConn wraps rw. The cipher halves start disabled.
func NewCipherConn(rw io.ReadWriter) *CipherConn {
	return &CipherConn{rw: rw}
}

// EnableRead latches the read-side cipher with key (decrypting mode).
func (c *CipherConn) EnableRead(key []byte) error {
	return c.reader.Enable(key, true)
}

// EnableWrite latches the write-side cipher with key (encrypting mode).
func (c *CipherConn) EnableWrite(key []byte) error {
	return c.writer.Enable(key, false)
}

// Read implements io.Reader, decrypting in place after the underlying read.
func (c *CipherConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		c.reader.Transform(p[:n])
	}
	return n, err
}

// Write implements io.Writer, encrypting a copy before it reaches the wire
// so the caller's buffer is never mutated out from under it.
func (c *CipherConn) Write(p []byte) (int, error) {
	if !c.writer.Enabled() {
		return c.rw.Write(p)
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	c.writer.Transform(buf)
	return c.rw.Write(buf)
}
