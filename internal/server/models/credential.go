package models

import "time"

// Credential is a provider secret sealed with AES-GCM.
type Credential struct {
	UserID     string
	ProviderID string
	Ciphertext []byte
	Nonce      []byte
	UpdatedAt  time.Time
}
