package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kit "kycdesk/internal/platform/testkit"
)

var fixed = func() time.Time { return time.Date(2026, 1, 8, 15, 0, 0, 0, time.UTC) }

func mac(secret, msg string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb, fixed)
	return code, out.String(), errb.String()
}

func TestHeaderScheme(t *testing.T) {
	code, out, _ := runCLI(t, "", "-scheme", "header", "-login", "L1", "-secret", "S1",
		"-date", "2026-01-08T15:00:00.000Z", "-body", `{"a":1}`)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	want := mac("S1", `L12026-01-08T15:00:00.000Z{"a":1}`)
	kit.MustContain(t, out, "Authorization: V2-HMAC-SHA256, Signature: "+want)
	kit.MustContain(t, out, "X-Login: L1")
	kit.MustNotContain(t, out, "S1")
}

func TestHeaderSchemeDefaultsDate(t *testing.T) {
	code, out, _ := runCLI(t, "", "-login", "L1", "-secret", "S1")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out, "X-Date: 2026-01-08T15:00:00.000Z")
	kit.MustContain(t, out, mac("S1", "L12026-01-08T15:00:00.000Z"))
}

func TestPayloadSchemeFromStdin(t *testing.T) {
	code, out, _ := runCLI(t, `{"b": 2}`, "-scheme", "payload", "-secret", "K1", "-body", "-", "-compact")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out, "payload-signature: "+mac("K1", `{"b":2}`))
	kit.MustContain(t, out, "X-Date: Thu, 08 Jan 2026 15:00:00 GMT")
}

func TestBodyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(p, []byte(`{"c":3}`), 0o600); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runCLI(t, "", "-scheme", "payload", "-secret", "K1", "-body-file", p)
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out, mac("K1", `{"c":3}`))
}

func TestFailures(t *testing.T) {
	t.Setenv("DLOCAL_SECRET_KEY", "")
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no secret", []string{"-login", "L1"}, 1},
		{"no login", []string{"-secret", "S1"}, 1},
		{"bad scheme", []string{"-scheme", "basic", "-secret", "S1"}, 1},
		{"both bodies", []string{"-secret", "S1", "-body", "x", "-body-file", "y"}, 2},
		{"not json", []string{"-secret", "S1", "-login", "L1", "-body", "{", "-compact"}, 2},
		{"bad flag", []string{"-nope"}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, "", c.args...); code != c.code {
				t.Fatalf("exit = %d, want %d", code, c.code)
			}
		})
	}
}

func TestSecretFromEnv(t *testing.T) {
	t.Setenv("DLOCAL_SECRET_KEY", "ENV-S")
	code, out, _ := runCLI(t, "", "-scheme", "payload", "-body", "x")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	kit.MustContain(t, out, mac("ENV-S", "x"))
}
