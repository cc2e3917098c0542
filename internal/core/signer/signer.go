// Package signer computes the two dLocal request signatures
//
// Header scheme, used by KYC and Payments
//
//	hex(HMAC-SHA256(secret, login + X-Date + body))
//
// Payload scheme, used by Payouts
//
//	hex(HMAC-SHA256(secret, body))
//
// Both are pure functions of their inputs. The body bytes must be the exact bytes sent on the wire.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	perr "kycdesk/internal/platform/errors"
)

const (
	// ISODateLayout is the X-Date layout for the header scheme, UTC with milliseconds
	ISODateLayout = "2006-01-02T15:04:05.000Z"

	// RFC1123DateLayout is the X-Date layout for the payload scheme, the same as net/http.TimeFormat
	RFC1123DateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

	// AuthScheme prefixes the Authorization header value
	AuthScheme = "V2-HMAC-SHA256"
)

// ISODate formats t for the header scheme X-Date
func ISODate(t time.Time) string { return t.UTC().Format(ISODateLayout) }

// RFC1123Date formats t for the payload scheme X-Date, always GMT
func RFC1123Date(t time.Time) string { return t.UTC().Format(RFC1123DateLayout) }

// AuthorizationValue renders the Authorization header for a header scheme signature
func AuthorizationValue(sig string) string { return AuthScheme + ", Signature: " + sig }

// HeaderSignature signs login + xDate + body with secret
// an empty body takes part in the concatenation as the empty string
func HeaderSignature(login, secret, xDate string, body []byte) (string, error) {
	if err := checkSecret(secret); err != nil {
		return "", err
	}
	if strings.TrimSpace(login) == "" {
		return "", perr.Signaturef("login is empty")
	}
	if err := CheckToken("login", login); err != nil {
		return "", err
	}
	if strings.TrimSpace(xDate) == "" {
		return "", perr.Signaturef("x-date is empty")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(login))
	mac.Write([]byte(xDate))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// PayloadSignature signs body alone with secret
func PayloadSignature(secret string, body []byte) (string, error) {
	if err := checkSecret(secret); err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Equal compares two hex signatures in constant time
func Equal(a, b string) bool { return hmac.Equal([]byte(a), []byte(b)) }

func checkSecret(secret string) error {
	if secret == "" {
		return perr.Signaturef("secret key is empty")
	}
	if !utf8.ValidString(secret) {
		return perr.Signaturef("secret key is not valid UTF-8")
	}
	return CheckToken("secret key", secret)
}

// CheckToken rejects a credential that cannot travel in a header or a signed body:
// invalid UTF-8, ASCII control bytes (CR and LF included) and DEL
func CheckToken(name, v string) error {
	if !utf8.ValidString(v) {
		return perr.Signaturef("%s is not valid UTF-8", name)
	}
	for i := 0; i < len(v); i++ {
		if b := v[i]; b < 0x20 || b == 0x7f {
			return perr.Signaturef("%s contains a control character at byte %d", name, i)
		}
	}
	return nil
}
