package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Nth is an An+B expression as used by :nth-child() and friends.
type Nth struct {
	A, B int
}

// ParseNth parses an An+B expression, including the odd and even keywords.
func ParseNth(s string) (*Nth, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return nil, fmt.Errorf("empty An+B expression")
	case "odd":
		return &Nth{A: 2, B: 1}, nil
	case "even":
		return &Nth{A: 2, B: 0}, nil
	}

	nIdx := strings.IndexByte(s, 'n')
	if nIdx == -1 {
		b, err := parseSignedInt(s, false)
		if err != nil {
			return nil, err
		}
		return &Nth{B: b}, nil
	}

	var nth Nth
	switch aStr := s[:nIdx]; aStr {
	case "", "+":
		nth.A = 1
	case "-":
		nth.A = -1
	default:
		a, err := parseSignedInt(aStr, false)
		if err != nil {
			return nil, err
		}
		nth.A = a
	}

	rest := strings.TrimSpace(s[nIdx+1:])
	if rest == "" {
		return &nth, nil
	}
	if rest[0] != '+' && rest[0] != '-' {
		return nil, fmt.Errorf("invalid An+B expression %q", s)
	}
	sign := rest[:1]
	b, err := parseSignedInt(strings.TrimSpace(rest[1:]), true)
	if err != nil {
		return nil, fmt.Errorf("invalid An+B expression %q", s)
	}
	if sign == "-" {
		b = -b
	}
	nth.B = b
	return &nth, nil
}

// parseSignedInt parses an integer; unsigned requires plain digits.
func parseSignedInt(s string, unsigned bool) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("missing integer")
	}
	digits := s
	if !unsigned && (s[0] == '+' || s[0] == '-') {
		digits = s[1:]
	}
	if digits == "" {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	for _, r := range digits {
		if !isDigit(r) {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
	}
	return strconv.Atoi(s)
}

// Matches reports whether the 1-based position pos satisfies An+B for some n >= 0.
func (n *Nth) Matches(pos int) bool {
	if n.A == 0 {
		return pos == n.B
	}
	diff := pos - n.B
	if n.A > 0 {
		return diff >= 0 && diff%n.A == 0
	}
	return diff <= 0 && diff%n.A == 0
}

func (n *Nth) String() string {
	switch {
	case n.A == 0:
		return strconv.Itoa(n.B)
	case n.B == 0:
		return fmt.Sprintf("%dn", n.A)
	case n.B > 0:
		return fmt.Sprintf("%dn+%d", n.A, n.B)
	default:
		return fmt.Sprintf("%dn%d", n.A, n.B)
	}
}
