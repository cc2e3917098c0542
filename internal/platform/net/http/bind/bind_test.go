package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "kycdesk/internal/platform/errors"
)

type card struct {
	Number string `json:"number" validate:"required,numeric,min=12"`
}

type payload struct {
	Name   string `json:"name" validate:"required,min=2"`
	Amount string `json:"amount" validate:"required,amount"`
	Card   *card  `json:"card" validate:"omitempty"`
}

func TestParseJSON_OK(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana","amount":"10.50"}`))
	got, err := ParseJSON[payload](r)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Ana" || got.Amount != "10.50" {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{"empty", "", nil, perr.ErrorCodeJSON, ""},
		{"whitespace", "  \n", nil, perr.ErrorCodeJSON, ""},
		{"garbage", "{not json", nil, perr.ErrorCodeJSON, ""},
		{"trailing", `{"name":"Ana","amount":"1"} {}`, nil, perr.ErrorCodeJSON, ""},
		{"unknown field", `{"name":"Ana","amount":"1","x":1}`, nil, perr.ErrorCodeJSON, ""},
		{"too big", `{"name":"Ana","amount":"1"}`, []JSONOptions{{MaxBytes: 8}}, perr.ErrorCodeJSON, ""},
		{"short name", `{"name":"A","amount":"1"}`, nil, perr.ErrorCodeValidation, "name"},
		{"bad amount", `{"name":"Ana","amount":"1.234"}`, nil, perr.ErrorCodeValidation, "amount"},
		{"nested", `{"name":"Ana","amount":"1","card":{"number":"12ab"}}`, nil, perr.ErrorCodeValidation, "card.number"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(c.body))
			_, err := ParseJSON[payload](r, c.opts...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), c.code, err)
			}
			e, _ := perr.As(err)
			if e.Field() != c.field {
				t.Fatalf("field = %q, want %q", e.Field(), c.field)
			}
		})
	}
}

func TestParseJSON_AllowEmptyAndUnknown(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	if _, err := ParseJSON[payload](r, JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("empty body should be tolerated: %v", err)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana","amount":"2","extra":true}`))
	if _, err := ParseJSON[payload](r, JSONOptions{MaxBytes: 1 << 10}); err != nil {
		t.Fatalf("unknown fields allowed when not disallowed: %v", err)
	}
}

func TestAmountTag(t *testing.T) {
	type amt struct {
		V string `json:"v" validate:"amount"`
	}
	good := []string{"0", "1", "10.00", "10.5", "999999.99"}
	bad := []string{"", "-1", "01", "1.", ".5", "1.234", "1e3", "ten"}
	for _, s := range good {
		if err := Struct(amt{V: s}); err != nil {
			t.Fatalf("%q should pass: %v", s, err)
		}
	}
	for _, s := range bad {
		if err := Struct(amt{V: s}); err == nil {
			t.Fatalf("%q should fail", s)
		}
	}
}

func TestValidationMessages(t *testing.T) {
	err := Struct(payload{Name: "A", Amount: "1"})
	field, msg := ValidationFieldAndMessage(Get().Validator.Struct(payload{Name: "A", Amount: "1"}))
	if field != "name" {
		t.Fatalf("field = %q", field)
	}
	if msg != "name must be at least 2" {
		t.Fatalf("msg = %q", msg)
	}
	if e, _ := perr.As(err); e.Message() != msg {
		t.Fatalf("Struct message = %q, want %q", e.Message(), msg)
	}

	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil err = %q %q", f, m)
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("sandbox_only", func(fl FieldLevel) bool { return fl.Field().Bool() }); err != nil {
		t.Fatalf("register: %v", err)
	}
	type flag struct {
		On bool `json:"on" validate:"sandbox_only"`
	}
	if err := Struct(flag{On: true}); err != nil {
		t.Fatalf("true should pass: %v", err)
	}
	if err := Struct(flag{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("false should fail validation, got %v", err)
	}
}
