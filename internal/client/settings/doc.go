// Package settings implements the client side of the account settings flow.
//
// A Fetcher reads the user's settings and the capability catalog. A Form is
// seeded from the ready snapshot, collects edits without touching the
// snapshot, and turns them into a sparse models.Patch. A Coordinator writes
// the patch, propagates analytics consent and notifies the user. Session
// ties the three together for the TUI and CLI front ends.
//
// Credential values only ever travel from the user to the server. Reads
// expose presence flags, which CredentialTracker turns into placeholders
// and gates the disconnect action with.
package settings
