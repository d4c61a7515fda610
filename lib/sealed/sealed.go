// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/hsbot/lib/secret"
)

// armorHeader opens every ASCII-armored age file.
const armorHeader = "-----BEGIN AGE ENCRYPTED FILE-----"

// ErrEmptyPlaintext is returned when a ciphertext decrypts to nothing
// but whitespace.
var ErrEmptyPlaintext = errors.New("sealed: decrypted secret is empty")

// DecryptFile decrypts the age file at ciphertextPath with the
// identities in identityPath. Surrounding whitespace is trimmed from
// the plaintext. The caller must Close the returned buffer.
func DecryptFile(ciphertextPath, identityPath string) (*secret.Buffer, error) {
	identities, err := ReadIdentities(identityPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(ciphertextPath)
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	defer file.Close()

	buffer, err := Decrypt(file, identities...)
	if err != nil {
		return nil, fmt.Errorf("%w (decrypting %s)", err, ciphertextPath)
	}
	return buffer, nil
}

// ReadIdentities parses an age identity file. Blank lines and lines
// starting with '#' are ignored.
func ReadIdentities(path string) ([]age.Identity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("sealed: parsing identity file %s: %w", path, err)
	}
	return identities, nil
}

// Decrypt reads an age ciphertext from reader, detecting ASCII armor,
// and returns the trimmed plaintext. The caller must Close the
// returned buffer.
func Decrypt(reader io.Reader, identities ...age.Identity) (*secret.Buffer, error) {
	if len(identities) == 0 {
		return nil, errors.New("sealed: no identities")
	}

	buffered := bufio.NewReader(reader)
	peek, _ := buffered.Peek(len(armorHeader))
	var source io.Reader = buffered
	if string(peek) == armorHeader {
		source = armor.NewReader(buffered)
	}

	plaintextReader, err := age.Decrypt(source, identities...)
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	plaintext, err := io.ReadAll(plaintextReader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("sealed: reading plaintext: %w", err)
	}
	defer secret.Zero(plaintext)

	trimmed := bytes.TrimSpace(plaintext)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPlaintext
	}
	buffer, err := secret.NewFromBytes(trimmed)
	if err != nil {
		return nil, fmt.Errorf("sealed: protecting plaintext: %w", err)
	}
	return buffer, nil
}
