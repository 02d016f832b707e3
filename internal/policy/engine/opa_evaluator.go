// Package engine evaluates the phone verification policy with OPA Rego.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.grunzimmer.phone_verification"

// DefaultPolicy requires an OTP unless an active user with a verified phone
// comes back on a device that is still effectively trusted.
const DefaultPolicy = `package grunzimmer.phone_verification

default otp_required := true
default register_trust_after_otp := true
default trust_ttl_days := 30

otp_required := false if {
	input.user.exists
	input.user.active
	input.user.phone_verified
	input.device.is_effectively_trusted
}

trust_ttl_days := input.settings.default_trust_ttl_days if {
	input.settings.default_trust_ttl_days > 0
}
`

// OPAEvaluator evaluates a prepared Rego policy. Safe for concurrent use.
type OPAEvaluator struct {
	query           rego.PreparedEvalQuery
	defaultTrustTTL int
	now             func() time.Time
}

// NewOPAEvaluator compiles policy (DefaultPolicy when empty). defaultTrustTTLDays
// is passed to the policy as input.settings.default_trust_ttl_days.
func NewOPAEvaluator(ctx context.Context, policy string, defaultTrustTTLDays int) (*OPAEvaluator, error) {
	if policy == "" {
		policy = DefaultPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"phone_verification.rego": policy})
	if err != nil {
		return nil, fmt.Errorf("compile policy: %w", err)
	}
	q, err := rego.New(rego.Query(policyQuery), rego.Compiler(compiler)).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	return &OPAEvaluator{query: q, defaultTrustTTL: defaultTrustTTLDays, now: time.Now}, nil
}

// LoadPolicyFile returns the Rego source at path, or "" when path is empty.
func LoadPolicyFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read policy file: %w", err)
	}
	return string(b), nil
}

// HealthCheck evaluates the prepared policy against an empty sign-in and
// expects an OTP to be required.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	res, err := e.EvaluateVerification(ctx, VerificationInput{})
	if err != nil {
		return err
	}
	if !res.OTPRequired {
		return fmt.Errorf("policy waives OTP for an unknown user")
	}
	return nil
}

// EvaluateVerification runs the policy. On evaluation errors it returns the
// fail-closed result (OTP required) together with the error.
func (e *OPAEvaluator) EvaluateVerification(ctx context.Context, in VerificationInput) (VerificationResult, error) {
	out := e.failClosed()
	rs, err := e.query.Eval(ctx, rego.EvalInput(e.buildInput(in)))
	if err != nil {
		return out, fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return out, fmt.Errorf("policy query returned no result")
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return out, fmt.Errorf("policy result is %T, want object", rs[0].Expressions[0].Value)
	}
	if v, ok := doc["otp_required"].(bool); ok {
		out.OTPRequired = v
	}
	if v, ok := doc["register_trust_after_otp"].(bool); ok {
		out.RegisterTrustAfterOTP = v
	}
	if days, ok := toInt(doc["trust_ttl_days"]); ok && days >= 0 {
		out.TrustTTLDays = days
	}
	return out, nil
}

func (e *OPAEvaluator) failClosed() VerificationResult {
	return VerificationResult{OTPRequired: true, RegisterTrustAfterOTP: true, TrustTTLDays: e.defaultTrustTTL}
}

func (e *OPAEvaluator) buildInput(in VerificationInput) map[string]any {
	now := e.now().UTC()
	user := map[string]any{
		"exists":         false,
		"id":             "",
		"active":         false,
		"phone_verified": false,
	}
	if u := in.User; u != nil {
		user["exists"] = true
		user["id"] = u.ID
		user["active"] = u.Active()
		user["phone_verified"] = u.PhoneVerified
	}
	device := map[string]any{
		"known":                  false,
		"trusted":                false,
		"trusted_until":          nil,
		"revoked_at":             nil,
		"is_effectively_trusted": false,
	}
	if d := in.Device; d != nil {
		device["known"] = true
		device["trusted"] = d.Trusted
		if d.TrustedUntil != nil {
			device["trusted_until"] = d.TrustedUntil.Format(time.RFC3339)
		}
		if d.RevokedAt != nil {
			device["revoked_at"] = d.RevokedAt.Format(time.RFC3339)
		}
		device["is_effectively_trusted"] = d.IsEffectivelyTrusted(now)
	}
	return map[string]any{
		"user":   user,
		"device": device,
		"settings": map[string]any{
			"default_trust_ttl_days": e.defaultTrustTTL,
		},
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			log.Printf("policy: trust_ttl_days %q is not an integer", n)
			return 0, false
		}
		return int(i), true
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
