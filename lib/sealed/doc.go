// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed decrypts age-encrypted secret files.
//
// A sealed password file is an age ciphertext (binary or ASCII-armored)
// addressed to an x25519 identity. The identity file is the output of
// age-keygen: one AGE-SECRET-KEY-1... line, optionally preceded by
// comment lines. [DecryptFile] reads both and returns the trimmed
// plaintext as a [secret.Buffer]; no plaintext copy survives on the Go
// heap past the call.
//
// Encrypting a password for hsbot uses the stock age tool:
//
//	age-keygen -o ~/.config/hsbot/identity
//	age -r age1... -a -o ~/.config/hsbot/password.age < password.txt
package sealed
