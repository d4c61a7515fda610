// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/hsbot/lib/config"
)

func TestReadPassword(t *testing.T) {
	directory := t.TempDir()

	plainPath := filepath.Join(directory, "password")
	if err := os.WriteFile(plainPath, []byte("from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	identityPath := filepath.Join(directory, "identity")
	if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var ciphertext bytes.Buffer
	armored := armor.NewWriter(&ciphertext)
	encryptor, err := age.Encrypt(armored, identity.Recipient())
	if err != nil {
		t.Fatalf("age.Encrypt: %v", err)
	}
	encryptor.Write([]byte("from-sealed-file\n"))
	encryptor.Close()
	armored.Close()
	sealedPath := filepath.Join(directory, "password.age")
	if err := os.WriteFile(sealedPath, ciphertext.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		homeserver config.HomeserverConfig
		want       string
	}{
		{"inline", config.HomeserverConfig{Password: "inline"}, "inline"},
		{"file wins over inline", config.HomeserverConfig{PasswordFile: plainPath, Password: "inline"}, "from-file"},
		{"sealed", config.HomeserverConfig{PasswordFile: sealedPath, IdentityFile: identityPath}, "from-sealed-file"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			password, err := readPassword(test.homeserver)
			if err != nil {
				t.Fatalf("readPassword: %v", err)
			}
			defer password.Close()
			if got := password.String(); got != test.want {
				t.Errorf("password = %q, want %q", got, test.want)
			}
		})
	}

	t.Run("sealed with wrong identity", func(t *testing.T) {
		other, _ := age.GenerateX25519Identity()
		otherPath := filepath.Join(directory, "other")
		if err := os.WriteFile(otherPath, []byte(other.String()), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := readPassword(config.HomeserverConfig{PasswordFile: sealedPath, IdentityFile: otherPath}); err == nil {
			t.Error("readPassword decrypted with the wrong identity")
		}
	})
}
