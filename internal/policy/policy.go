// Package policy decides whether a failed connector dispatch may be
// retried. Rules are boolean expressions compiled once at construction
// and evaluated against the attempt's parameters.
package policy

import (
	"errors"

	"github.com/Knetic/govaluate"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
)

// RuleConfig is one named retry rule. The expression sees the variables
// flow, connector, attempt_number, status_code and error_kind.
type RuleConfig struct {
	Name       string
	Expression string
}

// DefaultRules retries transient transport failures a bounded number of
// times and never retries anything else.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{
			Name:       "transient_http",
			Expression: "attempt_number < 3 && (status_code == 429 || status_code == 502 || status_code == 503 || status_code == 504)",
		},
		{
			Name:       "request_timeout",
			Expression: "attempt_number < 3 && error_kind == 'request_timeout_received'",
		},
	}
}

// RetryPolicy holds the compiled rules.
type RetryPolicy struct {
	rules []compiledRule
}

type compiledRule struct {
	name string
	expr *govaluate.EvaluableExpression
}

// NewRetryPolicy compiles the configured rules. A malformed expression
// surfaces as a ConnectorError with kind RoutingRulesParsingError so
// startup fails loudly instead of silently dropping the rule.
func NewRetryPolicy(configs []RuleConfig) (*RetryPolicy, error) {
	rules := make([]compiledRule, 0, len(configs))
	for _, cfg := range configs {
		expr, err := govaluate.NewEvaluableExpression(cfg.Expression)
		if err != nil {
			return nil, errs.NewRoutingRulesParsingError(cfg.Name, err)
		}
		rules = append(rules, compiledRule{name: cfg.Name, expr: expr})
	}
	return &RetryPolicy{rules: rules}, nil
}

// Attempt describes one failed dispatch for rule evaluation.
type Attempt struct {
	Flow          domain.Flow
	ConnectorName domain.ConnectorName
	AttemptNumber int
	StatusCode    int
	ErrorKind     string
}

// ShouldRetry reports whether any rule permits another dispatch. Only
// idempotent flows are ever retryable: a repeated authorize or capture
// could double-charge, so the flow gate runs before any rule.
func (p *RetryPolicy) ShouldRetry(attempt Attempt) (bool, error) {
	if !attempt.Flow.Idempotent() {
		return false, nil
	}
	params := map[string]interface{}{
		"flow":           string(attempt.Flow),
		"connector":      string(attempt.ConnectorName),
		"attempt_number": attempt.AttemptNumber,
		"status_code":    attempt.StatusCode,
		"error_kind":     attempt.ErrorKind,
	}
	for _, rule := range p.rules {
		result, err := rule.expr.Evaluate(params)
		if err != nil {
			return false, errs.NewRoutingRulesParsingError(rule.name, err)
		}
		allowed, ok := result.(bool)
		if !ok {
			return false, errs.NewRoutingRulesParsingError(rule.name, errors.New("expression did not evaluate to a boolean"))
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}
