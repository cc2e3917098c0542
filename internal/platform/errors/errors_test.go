package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTransport, http.StatusBadGateway},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeSignature, http.StatusInternalServerError},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if got := ErrorCodeSignature.String(); got != "signature" {
		t.Fatalf("String = %q", got)
	}
	if got := ErrorCode(500).String(); got != "code(500)" {
		t.Fatalf("String out of range = %q", got)
	}
}

func TestWrapAndInspect(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	root := stderrs.New("dial refused")
	e := Wrapf(root, ErrorCodeTransport, "call %s", "kyc")
	if e.Error() != "call kyc: dial refused" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !IsCode(e, ErrorCodeTransport) {
		t.Fatalf("IsCode false")
	}
	if Root(e) != root {
		t.Fatalf("Root did not return cause")
	}
	if IsCode(nil, ErrorCodeUnknown) {
		t.Fatalf("IsCode(nil) should be false")
	}

	outer := fmt.Errorf("handler: %w", e)
	got, ok := As(outer)
	if !ok || got.Code() != ErrorCodeTransport || got.Message() != "call kyc" {
		t.Fatalf("As through fmt wrap failed: %v %v", got, ok)
	}
	if HTTPStatus(outer) != http.StatusBadGateway {
		t.Fatalf("HTTPStatus = %d", HTTPStatus(outer))
	}
	if HTTPStatus(nil) != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) should be 200")
	}
}

func TestFieldAndOpCopyOnWrite(t *testing.T) {
	base := Validationf("amount is required")
	withField := WithField(base, "amount")
	withOp := WithOp(withField, "payments.create")

	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("base mutated: %q", e.Field())
	}
	e, _ := As(withOp)
	if e.Field() != "amount" || e.Op() != "payments.create" {
		t.Fatalf("field/op = %q/%q", e.Field(), e.Op())
	}

	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign || WithOp(foreign, "o") != foreign {
		t.Fatalf("foreign errors should pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
	w := WireFrom(FieldInvalidf("status", "status must be one of %v", []string{"APPROVED"}))
	if w.Code != ErrorCodeValidation || w.Field != "status" {
		t.Fatalf("wire = %+v", w)
	}
	w = WireFrom(stderrs.New("plain"))
	if w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("foreign wire = %+v", w)
	}
	status, body := HTTP(Signaturef("secret key is not valid UTF-8"))
	if status != http.StatusInternalServerError || body.Code != ErrorCodeSignature {
		t.Fatalf("HTTP = %d %+v", status, body)
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if !IsCode(WrapIf(stderrs.New("boom"), ErrorCodeDB, "x"), ErrorCodeDB) {
		t.Fatalf("WrapIf lost code")
	}
}

func TestFromPostgres(t *testing.T) {
	cases := []struct {
		name  string
		sqlst string
		want  ErrorCode
	}{
		{"unique", "23505", ErrorCodeDuplicateKey},
		{"fk", "23503", ErrorCodeInvalidArgument},
		{"not null", "23502", ErrorCodeValidation},
		{"cannot connect", "57P03", ErrorCodeUnavailable},
		{"other", "XX000", ErrorCodeDB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pg := &pgconn.PgError{Code: tc.sqlst, ColumnName: "external_id"}
			err := FromPostgres(fmt.Errorf("exec: %w", pg), "upsert payout")
			if CodeOf(err) != tc.want {
				t.Fatalf("code = %v, want %v", CodeOf(err), tc.want)
			}
			if e, _ := As(err); e.Field() != "external_id" {
				t.Fatalf("field = %q", e.Field())
			}
		})
	}

	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	if CodeOf(FromPostgres(stderrs.New("conn reset"), "x")) != ErrorCodeDB {
		t.Fatalf("foreign errors map to DB")
	}
	if !IsDuplicateKey(&pgconn.PgError{Code: "23505"}) || !IsUndefinedTable(&pgconn.PgError{Code: "42P01"}) {
		t.Fatalf("predicates failed")
	}
}
