package version

import "testing"

func TestInfoDefaults(t *testing.T) {
	bi := Info()
	if bi.Service != "kycdesk-api" {
		t.Fatalf("service = %q", bi.Service)
	}
	if bi.Version != "dev" || bi.Date != "unknown" {
		t.Fatalf("defaults = %+v", bi)
	}
	if bi.Commit == "" {
		t.Fatalf("commit should never be blank")
	}
}
