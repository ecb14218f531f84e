// Package eazypay implements the EazyPG payment gateway wire formats: the
// AES field cipher used in outbound redirect URLs, the form-encoded callback
// parser, and the SHA-512 signature check over the callback field contract.
package eazypay

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrKeyLength indicates the shared AES key is not 16, 24 or 32 bytes.
	ErrKeyLength = errors.New("eazypay: invalid AES key length")
	// ErrPadding indicates ciphertext whose PKCS#7 padding is malformed.
	ErrPadding = errors.New("eazypay: malformed padding")
)

// Codec is the reversible string transform applied to each field embedded in
// the outbound payment URL: PKCS#7 padding, block-independent AES (ECB), then
// base64. ECB leaks equal-block structure, but it is what the gateway decrypts
// on its side; substituting a chained mode would break interoperability.
type Codec struct {
	block cipher.Block
}

// NewCodec builds a Codec over the gateway's shared secret key.
func NewCodec(key []byte) (*Codec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		var kse aes.KeySizeError
		if errors.As(err, &kse) {
			return nil, fmt.Errorf("%w: %d bytes", ErrKeyLength, len(key))
		}
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Codec{block: block}, nil
}

// Encrypt pads plaintext to the block size, encrypts each block independently
// and returns the base64 encoding of the result.
func (c *Codec) Encrypt(plaintext string) string {
	data := padPKCS7([]byte(plaintext), c.block.BlockSize())
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += c.block.BlockSize() {
		c.block.Encrypt(out[i:], data[i:])
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt is the inverse of Encrypt. It returns ErrPadding when the decrypted
// bytes do not end in well-formed PKCS#7 padding, or when the decoded
// ciphertext is not a whole number of blocks.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	bs := c.block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", ErrPadding, len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		c.block.Decrypt(out[i:], data[i:])
	}
	plain, err := unpadPKCS7(out, bs)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// padPKCS7 appends n bytes of value n, where n is the distance to the next
// block boundary. A plaintext already on a boundary gains a full block, so
// padding is always present and self-describing.
func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-n], nil
}
