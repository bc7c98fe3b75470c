package record

import (
	"github.com/viant/pprl/pprlerr"
)

// Attribute is a named column with its similarity weight. A weight of zero
// marks an identifying attribute that is never encoded.
type Attribute struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// Roles names the attributes that carry a special meaning for linkage.
type Roles struct {
	// Source is the attribute holding the source label.
	Source string `yaml:"sourceAttribute"`
	// SourceA and SourceB are the two labels Source may take.
	SourceA string `yaml:"sourceA"`
	SourceB string `yaml:"sourceB"`
	// Identifier is carried through to the output (and used as ground truth
	// by evaluation and the cheat blocking key).
	Identifier string `yaml:"identifierAttribute"`

	// Blocking attributes; optional unless a blocking strategy needs them.
	FirstName   string `yaml:"firstName"`
	LastName    string `yaml:"lastName"`
	YearOfBirth string `yaml:"yearOfBirth"`
}

// Schema is the immutable attribute layout of a run.
type Schema struct {
	attrs []Attribute
	index map[string]int
	roles Roles
}

// NewSchema validates attrs and roles and returns a Schema. Attribute names
// must be unique and non-empty, weights non-negative, and every role that is
// set must name an attribute of the schema.
func NewSchema(attrs []Attribute, roles Roles) (*Schema, error) {
	if len(attrs) == 0 {
		return nil, pprlerr.Config("record: schema has no attributes")
	}
	s := &Schema{
		attrs: append([]Attribute(nil), attrs...),
		index: make(map[string]int, len(attrs)),
		roles: roles,
	}
	for i, a := range attrs {
		if a.Name == "" {
			return nil, pprlerr.Config("record: attribute %d has no name", i)
		}
		if a.Weight < 0 {
			return nil, pprlerr.Config("record: attribute %q has negative weight %v", a.Name, a.Weight)
		}
		if _, dup := s.index[a.Name]; dup {
			return nil, pprlerr.Config("record: duplicate attribute %q", a.Name)
		}
		s.index[a.Name] = i
	}
	if roles.Source == "" || roles.Identifier == "" {
		return nil, pprlerr.Config("record: source and identifier attributes are required")
	}
	if roles.SourceA == "" || roles.SourceB == "" || roles.SourceA == roles.SourceB {
		return nil, pprlerr.Config("record: two distinct source labels are required, got %q and %q", roles.SourceA, roles.SourceB)
	}
	for _, name := range []string{roles.Source, roles.Identifier, roles.FirstName, roles.LastName, roles.YearOfBirth} {
		if name == "" {
			continue
		}
		if _, ok := s.index[name]; !ok {
			return nil, pprlerr.Config("record: role attribute %q is not in the schema", name)
		}
	}
	return s, nil
}

// DefaultAttributes returns the person layout the linkage experiments were
// designed around.
func DefaultAttributes() []Attribute {
	return []Attribute{
		{Name: "sourceID", Weight: 0},
		{Name: "globalID", Weight: 0},
		{Name: "localID", Weight: 0},
		{Name: "firstName", Weight: 2.0},
		{Name: "middleName", Weight: 0.5},
		{Name: "lastName", Weight: 1.5},
		{Name: "yearOfBirth", Weight: 2.5},
		{Name: "placeOfBirth", Weight: 0.5},
		{Name: "country", Weight: 0.5},
		{Name: "city", Weight: 0.5},
		{Name: "zip", Weight: 0.3},
		{Name: "street", Weight: 0.3},
		{Name: "gender", Weight: 1.0},
		{Name: "ethnic", Weight: 1.0},
		{Name: "race", Weight: 1.0},
	}
}

// DefaultRoles returns the roles matching DefaultAttributes.
func DefaultRoles() Roles {
	return Roles{
		Source:      "sourceID",
		SourceA:     "A",
		SourceB:     "B",
		Identifier:  "globalID",
		FirstName:   "firstName",
		LastName:    "lastName",
		YearOfBirth: "yearOfBirth",
	}
}

// DefaultSchema returns the schema built from DefaultAttributes and
// DefaultRoles.
func DefaultSchema() *Schema {
	s, err := NewSchema(DefaultAttributes(), DefaultRoles())
	if err != nil {
		panic("record: default schema is invalid: " + err.Error())
	}
	return s
}

// Len returns the number of attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// Attributes returns a copy of the ordered attributes.
func (s *Schema) Attributes() []Attribute { return append([]Attribute(nil), s.attrs...) }

// Roles returns the attribute roles.
func (s *Schema) Roles() Roles { return s.roles }

// Index returns the position of the named attribute.
func (s *Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, pprlerr.NotFound("record: no such attribute %q", name)
	}
	return i, nil
}

// Weight returns the weight of the named attribute.
func (s *Schema) Weight(name string) (float64, error) {
	i, err := s.Index(name)
	if err != nil {
		return 0, err
	}
	return s.attrs[i].Weight, nil
}
