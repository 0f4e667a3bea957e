package service

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrProviderFailure   = errors.New("provider call failed")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnknownCallSite   = errors.New("unknown call site")
	ErrProviderNotConfig = errors.New("provider not configured")
)

// FailureClass says how a failure is handled
type FailureClass int

const (
	// Recoverable failures are absorbed where they occur (retrieval, PDF
	// fallback) and never reach the caller. No provider rule yields it;
	// the orchestrator treats it like Fatal.
	Recoverable FailureClass = iota
	// Degraded failures are replaced by a fixed template marked degraded
	Degraded
	// Fatal failures follow the call site's failure policy
	Fatal
)

func (c FailureClass) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	case Degraded:
		return "degraded"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// FailureRule maps errors accepted by Match to Class
type FailureRule struct {
	Name  string
	Class FailureClass
	Match func(err error) bool
}

// DefaultFailureRules classifies provider errors. The first matching rule wins;
// an error no rule matches is Fatal.
var DefaultFailureRules = []FailureRule{
	{Name: "canceled", Class: Fatal, Match: isContextError},
	{Name: "quota", Class: Degraded, Match: isQuotaError},
}

// Classify returns the class of err under rules
func Classify(err error, rules []FailureRule) FailureClass {
	for _, rule := range rules {
		if rule.Match(err) {
			return rule.Class
		}
	}
	return Fatal
}

// isQuotaError matches provider rate-limit and quota exhaustion messages
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
