package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/adapters/dlocal/dlocaltest"
	perr "kycdesk/internal/platform/errors"
	kit "kycdesk/internal/platform/testkit"
	"kycdesk/internal/services/api/payouts/domain"
	"kycdesk/internal/services/api/remote"
	"kycdesk/internal/services/mirror/mirrortest"
)

func input() domain.CreatePayoutInput {
	sandbox := true
	return domain.CreatePayoutInput{
		Auth: remote.Auth{
			Credentials: dlocal.Credentials{Login: "L1", TransKey: "K1", SecretKey: "S1"},
			UseSandbox:  &sandbox,
		},
		PayoutData: dlocal.PayoutInput{
			ExternalID:  "PAYOUT-1",
			Country:     "br",
			BankAccount: "001-2",
			Amount:      "100.00",
			Currency:    "brl",
		},
	}
}

func TestCreatePayout(t *testing.T) {
	var body map[string]any
	var sig string
	fake := dlocaltest.New(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		sig = r.Header.Get("Payload-Signature")
		dlocaltest.JSON(200, `{"cashout_id":12345,"status":"PENDING"}`)(w, r)
	})
	mw := &mirrortest.Writer{}
	s := New(fake.Builder, fake.Client, mw)

	v, err := s.CreatePayout(context.Background(), input())
	if err != nil || !v.Success {
		t.Fatalf("create = %+v, %v", v, err)
	}
	if body["pass"] != "K1" || body["purpose"] != "EPREMT" || body["bank_code"] != "0" || sig == "" {
		t.Fatalf("wire body = %v sig = %q", body, sig)
	}
	if sig != v.Signature {
		t.Fatalf("header signature %q != view %q", sig, v.Signature)
	}
	kit.MustNotContain(t, string(v.BodySent), `"pass":"K1"`)

	calls := mw.Calls()
	if len(calls) != 1 || calls[0].Op != "payout.create" {
		t.Fatalf("mirror = %+v", calls)
	}
	d := calls[0].Payout
	if d.ExternalID != "PAYOUT-1" || d.Currency != "BRL" || d.Purpose != "EPREMT" || d.Amount.String() != "100" {
		t.Fatalf("draft = %+v", d)
	}
}

func TestCreatePayout_Errors(t *testing.T) {
	fake := dlocaltest.New(t, dlocaltest.JSON(200, `{"code":300,"message":"duplicated external_id"}`))
	mw := &mirrortest.Writer{}
	s := New(fake.Builder, fake.Client, mw)

	v, err := s.CreatePayout(context.Background(), input())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Success || v.Outcome != dlocal.KindAPIError || v.ErrorCode != "300" || v.Local != nil {
		t.Fatalf("embedded error = %+v", v)
	}

	bare := dlocaltest.New(t, dlocaltest.JSON(200, `{"status":"ERROR","code":"5300","description":"bank rejected"}`))
	bw := &mirrortest.Writer{}
	v, err = New(bare.Builder, bare.Client, bw).CreatePayout(context.Background(), input())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Success || v.ErrorCode != "5300" || v.Error != "bank rejected" || v.Local != nil {
		t.Fatalf("description error = %+v", v)
	}
	if calls := bw.Calls(); len(calls) != 1 || calls[0].Result.OK() {
		t.Fatalf("a failed payout is never saved: %+v", calls)
	}

	in := input()
	in.PayoutData.ExternalID = ""
	_, err = s.CreatePayout(context.Background(), in)
	if e, _ := perr.As(err); !perr.IsCode(err, perr.ErrorCodeValidation) || e.Field() != "payout_data.external_id" {
		t.Fatalf("missing external_id = %v", err)
	}
	if fake.Hits() != 1 {
		t.Fatalf("hits = %d", fake.Hits())
	}
}
