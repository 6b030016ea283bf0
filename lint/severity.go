package lint

import "fmt"

// Severity grades a diagnostic.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityViolation
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityViolation:
		return "violation"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText 让 JSON/YAML 输出使用名称而不是数字。
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity is the inverse of String.
func ParseSeverity(v string) (Severity, error) {
	switch v {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "violation":
		return SeverityViolation, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", v)
	}
}
