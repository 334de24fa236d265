package domain

import (
	"fmt"
	"strings"
)

// Operation is a rendering request accepted on the command line.
type Operation string

// Supported operations.
const (
	OpVersion        Operation = "Ver"
	OpNumericVersion Operation = "NumVer"
	OpMavenVersion   Operation = "MvnVer"
	OpFlags          Operation = "Flags"
	OpHash           Operation = "Hash"
	OpBranch         Operation = "Branch"
	OpDirt           Operation = "Dirt"
)

// AboutToken requests the banner and the list of accepted operations.
const AboutToken = "?"

// Operations returns every supported operation in display order.
func Operations() []Operation {
	return []Operation{OpVersion, OpNumericVersion, OpMavenVersion, OpFlags, OpHash, OpBranch, OpDirt}
}

// DefaultOperations returns the operations performed when none are requested.
func DefaultOperations() []Operation {
	return []Operation{OpVersion, OpFlags}
}

// ParseOperation resolves a token to an operation, ignoring case.
func ParseOperation(token string) (Operation, error) {
	for _, op := range Operations() {
		if strings.EqualFold(token, string(op)) {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w '%s'", ErrUnknownOperation, token)
}

// ParseOperations resolves tokens in order and stops at the first unknown one.
// An empty token list yields DefaultOperations.
func ParseOperations(tokens []string) ([]Operation, error) {
	if len(tokens) == 0 {
		return DefaultOperations(), nil
	}
	ops := make([]Operation, 0, len(tokens))
	for _, token := range tokens {
		op, err := ParseOperation(token)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Render produces the output lines of op for the snapshot.
func (s *VersionSnapshot) Render(op Operation) ([]string, error) {
	switch op {
	case OpVersion:
		return []string{s.VersionString()}, nil
	case OpNumericVersion:
		v, err := s.NumericVersionString()
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	case OpMavenVersion:
		v, err := s.MavenVersionString()
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	case OpFlags:
		labels, err := s.ExplainFlags()
		if err != nil {
			return nil, err
		}
		return []string{strings.Join(labels, ", ")}, nil
	case OpHash:
		return []string{s.tag.Hashcode}, nil
	case OpBranch:
		return []string{s.branch}, nil
	case OpDirt:
		var lines []string
		for line := range s.dirty.Report() {
			lines = append(lines, line)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownOperation, op)
	}
}
