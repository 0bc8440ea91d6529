// Package cryptox provides the symmetric primitives used to keep provider
// credentials encrypted at rest: argon2id key derivation and AES-GCM sealing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/gophsettings/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = 32

var ErrEmptyKey = errors.New("empty encryption key")

// DeriveKey stretches secret with argon2id into a KeySize-byte AES key.
// Identical inputs always produce the same key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext using AES-GCM.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new random
// nonce is generated for each call; ciphertext and nonce are returned
// separately so they can be stored in distinct columns.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte(serverSecret), salt)
//	ct, nonce, err := cryptox.Seal([]byte("ghp_xxx"), key)
//	if err != nil {
//	    return err
//	}
func Seal(plaintext []byte, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal with the same key and nonce.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
