package blocking

import (
	"strings"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

// Strategy derives one blocking key from a record.
type Strategy int

const (
	// FirstNameYear is Soundex(first name) followed by the year of birth.
	FirstNameYear Strategy = iota + 1
	// LastNameYear is Soundex(last name) followed by the year of birth.
	LastNameYear
	// FirstLastName is Soundex(first name) followed by Soundex(last name).
	FirstLastName
	// IdentifierCheat is the ground-truth identifier. It guarantees that
	// records of the same entity share a bucket and leaks the identifier, so
	// it is only meant for evaluation runs.
	IdentifierCheat
)

var strategyNames = map[Strategy]string{
	FirstNameYear:   "first-name-year",
	LastNameYear:    "last-name-year",
	FirstLastName:   "first-last-name",
	IdentifierCheat: "identifier-cheat",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStrategy parses a strategy name as printed by String.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, pprlerr.Config("blocking: unknown strategy %q", name)
}

// DefaultStrategies returns the three phonetic strategies, plus
// IdentifierCheat when cheat is set.
func DefaultStrategies(cheat bool) []Strategy {
	out := []Strategy{FirstNameYear, LastNameYear, FirstLastName}
	if cheat {
		out = append(out, IdentifierCheat)
	}
	return out
}

// requires returns the attributes s reads.
func (s Strategy) requires(roles record.Roles) (map[string]string, error) {
	switch s {
	case FirstNameYear:
		return map[string]string{"firstName": roles.FirstName, "yearOfBirth": roles.YearOfBirth}, nil
	case LastNameYear:
		return map[string]string{"lastName": roles.LastName, "yearOfBirth": roles.YearOfBirth}, nil
	case FirstLastName:
		return map[string]string{"firstName": roles.FirstName, "lastName": roles.LastName}, nil
	case IdentifierCheat:
		return map[string]string{"identifierAttribute": roles.Identifier}, nil
	}
	return nil, pprlerr.Config("blocking: unknown strategy %d", int(s))
}

// Check reports an ErrConfig error when schema lacks an attribute s needs.
func (s Strategy) Check(schema *record.Schema) error {
	roles, err := s.requires(schema.Roles())
	if err != nil {
		return err
	}
	for role, name := range roles {
		if name == "" {
			return pprlerr.Config("blocking: strategy %v needs the %s attribute", s, role)
		}
	}
	return nil
}

// Key returns the blocking key of r. The result depends only on r.
func (s Strategy) Key(r *record.Record) (string, error) {
	roles := r.Schema().Roles()
	switch s {
	case FirstNameYear:
		return phoneticWith(r, roles.FirstName, roles.YearOfBirth, false)
	case LastNameYear:
		return phoneticWith(r, roles.LastName, roles.YearOfBirth, false)
	case FirstLastName:
		return phoneticWith(r, roles.FirstName, roles.LastName, true)
	case IdentifierCheat:
		return r.Identifier(), nil
	}
	return "", pprlerr.Config("blocking: unknown strategy %d", int(s))
}

// phoneticWith concatenates the Soundex code of the first attribute with the
// second one, which is Soundex-coded too when phonetic is set.
func phoneticWith(r *record.Record, first, second string, phonetic bool) (string, error) {
	code, err := r.Phonetic(first)
	if err != nil {
		return "", err
	}
	var tail string
	if phonetic {
		tail, err = r.Phonetic(second)
	} else {
		tail, err = r.Value(second)
	}
	if err != nil {
		return "", err
	}
	return code + tail, nil
}
