package dlocal

import (
	"strings"

	"kycdesk/internal/platform/config"
	perr "kycdesk/internal/platform/errors"
)

// Environment selects the sandbox or the production hosts
type Environment string

const (
	// Sandbox is the remote test environment, the only one with sandbox tools
	Sandbox Environment = "sandbox"
	// Production moves real money
	Production Environment = "production"
)

// EnvFromSandbox maps the console use_sandbox flag
func EnvFromSandbox(useSandbox bool) Environment {
	if useSandbox {
		return Sandbox
	}
	return Production
}

// Valid reports whether e is a known environment
func (e Environment) Valid() bool { return e == Sandbox || e == Production }

// Family is the remote API family, it alone decides the signing scheme
type Family string

const (
	FamilyKYC      Family = "kyc"
	FamilyPayments Family = "payments"
	FamilyPayouts  Family = "payouts"
)

// Scheme names a signing scheme
type Scheme string

const (
	// SchemeHeader signs login + X-Date + body into the Authorization header
	SchemeHeader Scheme = "header"
	// SchemePayload signs the body alone into payload-signature
	SchemePayload Scheme = "payload"
)

// Scheme returns the signing scheme of the family
func (f Family) Scheme() Scheme {
	if f == FamilyPayouts {
		return SchemePayload
	}
	return SchemeHeader
}

// Default hosts
const (
	DefaultSandboxURL    = "https://sandbox.dlocal.com"
	DefaultProductionURL = "https://api.dlocal.com"
)

// Endpoints holds base URLs per environment, payouts may live on separate hosts
type Endpoints struct {
	Sandbox           string
	Production        string
	PayoutsSandbox    string
	PayoutsProduction string
}

// DefaultEndpoints points every family at the public hosts
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Sandbox:           DefaultSandboxURL,
		Production:        DefaultProductionURL,
		PayoutsSandbox:    DefaultSandboxURL,
		PayoutsProduction: DefaultProductionURL,
	}
}

// EndpointsFromEnv reads SANDBOX_URL, PRODUCTION_URL, PAYOUTS_SANDBOX_URL and PAYOUTS_PRODUCTION_URL
// payouts hosts default to the main hosts; a malformed URL panics at startup
func EndpointsFromEnv(cfg config.Conf) Endpoints {
	sb := cfg.MayURL("SANDBOX_URL", DefaultSandboxURL).String()
	pr := cfg.MayURL("PRODUCTION_URL", DefaultProductionURL).String()
	return Endpoints{
		Sandbox:           sb,
		Production:        pr,
		PayoutsSandbox:    cfg.MayURL("PAYOUTS_SANDBOX_URL", sb).String(),
		PayoutsProduction: cfg.MayURL("PAYOUTS_PRODUCTION_URL", pr).String(),
	}
}

// Base returns the base URL for env and family without a trailing slash
func (e Endpoints) Base(env Environment, f Family) (string, error) {
	var u string
	switch {
	case env == Sandbox && f == FamilyPayouts:
		u = e.PayoutsSandbox
	case env == Production && f == FamilyPayouts:
		u = e.PayoutsProduction
	case env == Sandbox:
		u = e.Sandbox
	case env == Production:
		u = e.Production
	default:
		return "", perr.FieldInvalidf("environment", "unknown environment %q", env)
	}
	u = strings.TrimRight(u, "/")
	if u == "" {
		return "", perr.Internalf("no %s base url configured for %s", f, env)
	}
	return u, nil
}
