package dataset

import (
	"math"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

// GenerateOptions shapes a synthetic dataset.
type GenerateOptions struct {
	// Size is the number of records per source.
	Size int
	// Overlap is the fraction of source B persons that also appear in
	// source A under the same globalID.
	Overlap float64
	// ErrorRate is the probability that a descriptive attribute of a record
	// carries one typo.
	ErrorRate float64
	// Seed drives the generator; zero picks a random seed.
	Seed int64
}

// Validate checks the option ranges.
func (o GenerateOptions) Validate() error {
	if o.Size <= 0 {
		return pprlerr.InvalidArgument("dataset: size must be positive, got %d", o.Size)
	}
	if o.Overlap < 0 || o.Overlap > 1 {
		return pprlerr.InvalidArgument("dataset: overlap %v is outside [0, 1]", o.Overlap)
	}
	if o.ErrorRate < 0 || o.ErrorRate > 1 {
		return pprlerr.InvalidArgument("dataset: error rate %v is outside [0, 1]", o.ErrorRate)
	}
	return nil
}

var (
	ethnicities = []string{"hispanic", "non-hispanic", "unknown"}
	races       = []string{"white", "black", "asian", "native", "other"}
)

type person struct {
	globalID     string
	firstName    string
	middleName   string
	lastName     string
	yearOfBirth  string
	placeOfBirth string
	country      string
	city         string
	zip          string
	street       string
	gender       string
	ethnic       string
	race         string
}

func newPerson(f *gofakeit.Faker) person {
	addr := f.Address()
	return person{
		globalID:     f.UUID(),
		firstName:    f.FirstName(),
		middleName:   f.FirstName(),
		lastName:     f.LastName(),
		yearOfBirth:  strconv.Itoa(f.Number(1930, 2005)),
		placeOfBirth: f.City(),
		country:      addr.Country,
		city:         addr.City,
		zip:          addr.Zip,
		street:       addr.Street,
		gender:       f.RandomString([]string{"m", "f"}),
		ethnic:       f.RandomString(ethnicities),
		race:         f.RandomString(races),
	}
}

// values lays the person out in DefaultAttributes order.
func (p person) values(source, localID string) []string {
	return []string{
		source, p.globalID, localID,
		p.firstName, p.middleName, p.lastName, p.yearOfBirth,
		p.placeOfBirth, p.country, p.city, p.zip, p.street,
		p.gender, p.ethnic, p.race,
	}
}

// Generate builds a two-source dataset in record.DefaultSchema layout. Both
// sources hold opts.Size records; round(Overlap*Size) persons of source B are
// copies of source A persons. Every record is corrupted independently, so a
// shared person may differ between the sources. The output is a pure
// function of the options when Seed is non-zero.
func Generate(opts GenerateOptions) ([]*record.Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	schema := record.DefaultSchema()
	roles := schema.Roles()
	f := gofakeit.New(opts.Seed)

	a := make([]person, opts.Size)
	for i := range a {
		a[i] = newPerson(f)
	}
	shared := int(math.Round(opts.Overlap * float64(opts.Size)))
	b := make([]person, 0, opts.Size)
	b = append(b, a[:shared]...)
	for len(b) < opts.Size {
		b = append(b, newPerson(f))
	}
	for i := len(b) - 1; i > 0; i-- {
		j := f.Number(0, i)
		b[i], b[j] = b[j], b[i]
	}

	records := make([]*record.Record, 0, 2*opts.Size)
	emit := func(source string, persons []person) error {
		for i, p := range persons {
			values := p.values(source, strconv.Itoa(i+1))
			corrupt(f, values, opts.ErrorRate)
			rec, err := record.New(schema, values...)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	}
	if err := emit(roles.SourceA, a); err != nil {
		return nil, err
	}
	if err := emit(roles.SourceB, b); err != nil {
		return nil, err
	}
	return records, nil
}

// descriptive are the positions of DefaultAttributes that may carry typos;
// source and identifiers stay intact.
var descriptive = []int{3, 4, 5, 6, 7, 8, 9, 10, 11}

func corrupt(f *gofakeit.Faker, values []string, rate float64) {
	if rate == 0 {
		return
	}
	for _, i := range descriptive {
		if f.Float64() < rate {
			values[i] = Typo(f, values[i])
		}
	}
}

// Typo applies one random edit to s: substitution, deletion, insertion or
// transposition of adjacent characters.
func Typo(f *gofakeit.Faker, s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return f.Letter()
	}
	pos := f.Number(0, len(r)-1)
	switch f.Number(0, 3) {
	case 0:
		r[pos] = []rune(f.Letter())[0]
	case 1:
		if len(r) > 1 {
			r = append(r[:pos], r[pos+1:]...)
		}
	case 2:
		r = append(r[:pos], append([]rune(f.Letter()), r[pos:]...)...)
	default:
		if pos == len(r)-1 {
			pos--
		}
		if pos >= 0 {
			r[pos], r[pos+1] = r[pos+1], r[pos]
		}
	}
	return string(r)
}
