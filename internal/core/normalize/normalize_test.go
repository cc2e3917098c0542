package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity", "Ana Gomez", "Ana Gomez"},
		{"empty", "", ""},
		{"collapse whitespace", "  Ana\t\tMaria \n Gomez ", "Ana Maria Gomez"},
		{"drop controls", "Ana\x00\u0007 Gomez\u200b", "Ana Gomez"},
		{"ill formed bytes", string([]byte{'A', 0xff, 'n', 'a'}), "Ana"},
		{"nfc composes", "Jose\u0301", "Jos\u00e9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.out {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		in  string
		out string
		ok  bool
	}{
		{"4111111111111111", "4111111111111111", true},
		{" 4111 1111-1111.1111 ", "4111111111111111", true},
		{"\uff14\uff11\uff11\uff11", "4111", true},
		{"4111x111", "4111111", false},
		{"", "", false},
		{" - ", "", false},
	}
	for _, tc := range tests {
		got, ok := Digits(tc.in)
		if got != tc.out || ok != tc.ok {
			t.Fatalf("Digits(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.out, tc.ok)
		}
	}
}

func TestCode(t *testing.T) {
	cases := map[string]string{
		"ar":           "AR",
		" ars ":        "ARS",
		"\uff41\uff52": "AR",
		"tax_id":       "TAX_ID",
		"":             "",
	}
	for in, want := range cases {
		if got := Code(in); got != want {
			t.Fatalf("Code(%q) = %q, want %q", in, got, want)
		}
	}
}
