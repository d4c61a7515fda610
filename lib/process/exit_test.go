// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"testing"
)

func TestReport(t *testing.T) {
	var buffer bytes.Buffer
	report(&buffer, errors.New("logging in: M_FORBIDDEN"))
	if got, want := buffer.String(), "error: logging in: M_FORBIDDEN\n"; got != want {
		t.Errorf("report wrote %q, want %q", got, want)
	}
}

func TestFatalExitsWithOne(t *testing.T) {
	saved := exit
	t.Cleanup(func() { exit = saved })

	code := -1
	exit = func(c int) { code = c }
	Fatal(errors.New("boom"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
