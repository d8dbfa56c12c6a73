package season

import "fmt"

type Type string

const (
	TypeRegular   Type = "Regular Season"
	TypePlayoffs  Type = "Playoffs"
	TypePreseason Type = "Preseason"
)

// Season identifies one NBA season segment. At most one season per type
// carries IsCurrent, enforced by storage.
type Season struct {
	ID        int64
	Year      int
	Type      Type
	IsCurrent bool
}

func (s Season) Validate() error {
	if s.Year < 1946 {
		return fmt.Errorf("invalid season year %d", s.Year)
	}
	switch s.Type {
	case TypeRegular, TypePlayoffs, TypePreseason:
	default:
		return fmt.Errorf("invalid season type %q", s.Type)
	}
	return nil
}

// Label renders the cross-year form, e.g. 2024 -> "2024-25".
func (s Season) Label() string {
	return fmt.Sprintf("%d-%02d", s.Year, (s.Year+1)%100)
}
