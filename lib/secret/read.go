// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadFromPath reads a secret from a file path, or from stdin if path
// is "-". When stdin is a terminal, the user is prompted on stderr and
// the input is read with echo disabled. Leading and trailing whitespace
// is trimmed. Returns an error if the secret is empty after trimming.
func ReadFromPath(path string) (*Buffer, error) {
	if path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return fromRaw(data)
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFileDescriptor) {
		fmt.Fprint(os.Stderr, "Password: ")
		data, err := term.ReadPassword(stdinFileDescriptor)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		return fromRaw(data)
	}
	return ReadLine(os.Stdin)
}

// ReadLine reads the first line of reader as a secret.
func ReadLine(reader io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		return nil, fmt.Errorf("secret input is empty")
	}
	return fromRaw(scanner.Bytes())
}

// fromRaw trims data, moves it into a Buffer, and zeros data
// (including the trimmed whitespace) whether or not it succeeds.
func fromRaw(data []byte) (*Buffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
