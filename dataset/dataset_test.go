package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

func smallSchema(t *testing.T) *record.Schema {
	t.Helper()
	s, err := record.NewSchema([]record.Attribute{
		{Name: "src"}, {Name: "id"}, {Name: "name", Weight: 1},
	}, record.Roles{Source: "src", SourceA: "A", SourceB: "B", Identifier: "id"})
	require.NoError(t, err)
	return s
}

func TestReadCSV(t *testing.T) {
	s := smallSchema(t)

	records, err := ReadCSV(strings.NewReader("A,1,John\nB,1,Jon\n"), s, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record.SideA, records[0].Side())
	assert.Equal(t, "Jon", records[1].At(2))

	records, err = ReadCSV(strings.NewReader("src,id,name\nA,1,\"Smith, John\"\n"), s, ReadOptions{Header: true})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Smith, John", records[0].At(2))

	records, err = ReadCSV(strings.NewReader("A;1;John\n"), s, ReadOptions{Comma: ';'})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestReadCSV_Errors(t *testing.T) {
	s := smallSchema(t)
	cases := map[string]struct {
		data string
		opts ReadOptions
	}{
		"short row":    {"A,1,John\nB,1\n", ReadOptions{}},
		"long row":     {"A,1,John,extra\n", ReadOptions{}},
		"wrong header": {"src,name,id\nA,1,John\n", ReadOptions{Header: true}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(c.data), s, c.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, pprlerr.ErrInvalidArgument)
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	records, err := Generate(GenerateOptions{Size: 20, Overlap: 0.5, ErrorRate: 0.2, Seed: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, record.DefaultSchema(), false))
	back, err := ReadCSV(&buf, record.DefaultSchema(), ReadOptions{})
	require.NoError(t, err)
	require.Len(t, back, len(records))
	for i := range records {
		assert.True(t, records[i].Equal(back[i]), "record %d", i)
	}
}

func TestWritePairsCSV(t *testing.T) {
	s := smallSchema(t)
	a, err := record.New(s, "A", "g1", "John")
	require.NoError(t, err)
	b, err := record.New(s, "B", "g2", "Jon")
	require.NoError(t, err)
	pairs := []record.Pair{record.NewPair(b, a, 0.75)}

	var buf bytes.Buffer
	require.NoError(t, WritePairsCSV(&buf, pairs, s, false))
	assert.Equal(t, "id_A,id_B\ng1,g2\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePairsCSV(&buf, pairs, s, true))
	assert.Equal(t, "id_A,id_B,similarity\ng1,g2,0.750000\n", buf.String())
}

func TestWritePairsXLSX(t *testing.T) {
	s := smallSchema(t)
	a, err := record.New(s, "A", "g1", "John")
	require.NoError(t, err)
	b, err := record.New(s, "B", "g1", "Jon")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "matches.xlsx")
	require.NoError(t, WritePairsXLSX(path, []record.Pair{record.NewPair(a, b, 0.5)}, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{MatchesSheet}, f.GetSheetList())
	rows, err := f.GetRows(MatchesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id_A", "id_B", "similarity"}, rows[0])
	assert.Equal(t, []string{"g1", "g1", "0.5"}, rows[1])
}

func TestGenerate(t *testing.T) {
	opts := GenerateOptions{Size: 50, Overlap: 0.4, ErrorRate: 0.1, Seed: 42}
	records, err := Generate(opts)
	require.NoError(t, err)
	require.Len(t, records, 100)

	ids := map[record.Side]map[string]bool{record.SideA: {}, record.SideB: {}}
	for _, r := range records {
		require.NotEqual(t, record.SideNone, r.Side())
		ids[r.Side()][r.Identifier()] = true
	}
	assert.Len(t, ids[record.SideA], 50)
	assert.Len(t, ids[record.SideB], 50)
	shared := 0
	for id := range ids[record.SideB] {
		if ids[record.SideA][id] {
			shared++
		}
	}
	assert.Equal(t, 20, shared)

	again, err := Generate(opts)
	require.NoError(t, err)
	for i := range records {
		assert.True(t, records[i].Equal(again[i]), "record %d differs between runs", i)
	}
}

func TestGenerate_NoErrorsKeepsSharedPersonsIdentical(t *testing.T) {
	records, err := Generate(GenerateOptions{Size: 10, Overlap: 1, Seed: 7})
	require.NoError(t, err)
	byID := map[string][]string{}
	for _, r := range records {
		v := r.Values()
		// everything but the source label and local id
		key := strings.Join(v[3:], "|")
		byID[r.Identifier()] = append(byID[r.Identifier()], key)
	}
	require.Len(t, byID, 10)
	for id, keys := range byID {
		require.Len(t, keys, 2, id)
		assert.Equal(t, keys[0], keys[1], id)
	}
}

func TestGenerate_InvalidOptions(t *testing.T) {
	for _, opts := range []GenerateOptions{
		{Size: 0},
		{Size: 1, Overlap: 1.5},
		{Size: 1, ErrorRate: -0.1},
	} {
		_, err := Generate(opts)
		assert.ErrorIs(t, err, pprlerr.ErrInvalidArgument, "%+v", opts)
	}
}

func TestTypo(t *testing.T) {
	f := gofakeit.New(1)
	for _, s := range []string{"", "a", "Robert", "Müller"} {
		out := Typo(f, s)
		d := len([]rune(out)) - len([]rune(s))
		assert.True(t, d >= -1 && d <= 1, "Typo(%q) = %q", s, out)
		if s == "" {
			assert.NotEmpty(t, out)
		}
	}
}
