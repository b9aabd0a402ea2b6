package mapreduce

import (
	"fmt"
	"strings"
)

// Policy decides what the collector does when a worker fails.
type Policy int

const (
	// FailFast stops collecting on the first failure and reports only that one.
	FailFast Policy = iota
	// CollectAll waits for every worker and reports all failures together.
	CollectAll
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case CollectAll:
		return "collect-all"
	default:
		return "unknown"
	}
}

// ParsePolicy converts "fail-fast" or "collect-all" (case insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "collect-all", "collectall":
		return CollectAll, nil
	}
	return FailFast, invalidConfig("unknown policy %q", s)
}

// UnmarshalText lets a Policy be decoded from config files and env vars.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (p Policy) MarshalText() ([]byte, error) {
	if p != FailFast && p != CollectAll {
		return nil, fmt.Errorf("mapreduce: cannot marshal policy %d", int(p))
	}
	return []byte(p.String()), nil
}
