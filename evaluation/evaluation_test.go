package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/pprl/pprlerr"
	"github.com/viant/pprl/record"
)

func fixture(t *testing.T) (*record.Schema, []*record.Record) {
	t.Helper()
	s, err := record.NewSchema([]record.Attribute{
		{Name: "src"}, {Name: "id"}, {Name: "name", Weight: 1},
	}, record.Roles{Source: "src", SourceA: "A", SourceB: "B", Identifier: "id"})
	require.NoError(t, err)
	rows := [][]string{
		{"A", "1", "John"}, {"A", "2", "Jane"}, {"A", "3", "Max"},
		{"B", "1", "Jon"}, {"B", "2", "Jane"}, {"B", "4", "Eve"},
		{"C", "3", "Max"},
	}
	var records []*record.Record
	for _, row := range rows {
		r, err := record.New(s, row...)
		require.NoError(t, err)
		records = append(records, r)
	}
	return s, records
}

func TestEvaluateLinks(t *testing.T) {
	_, records := fixture(t)
	res := EvaluateLinks(records, []Link{{"1", "1"}, {"3", "4"}, {"1", "1"}})

	assert.Equal(t, 1, res.TruePositives)
	assert.Equal(t, 1, res.FalsePositives)
	assert.Equal(t, 1, res.FalseNegatives)
	assert.Equal(t, int64(9), res.TotalPairs)
	assert.Equal(t, int64(6), res.TrueNegatives())
	assert.InDelta(t, 0.5, res.Precision, 1e-9)
	assert.InDelta(t, 0.5, res.Recall, 1e-9)
	assert.InDelta(t, 0.5, res.FMeasure, 1e-9)
}

func TestEvaluateLinks_ZeroDenominators(t *testing.T) {
	_, records := fixture(t)
	res := EvaluateLinks(records, nil)
	assert.Zero(t, res.Precision)
	assert.Zero(t, res.Recall)
	assert.Zero(t, res.FMeasure)
	assert.Equal(t, 2, res.FalseNegatives)

	res = EvaluateLinks(nil, []Link{{"x", "x"}})
	assert.Equal(t, 1, res.FalsePositives)
	assert.Zero(t, res.Recall)
}

func TestEvaluate_Pairs(t *testing.T) {
	_, records := fixture(t)
	pairs := []record.Pair{
		record.NewPair(records[3], records[0], 0.9),
		record.NewPair(records[1], records[4], 1),
	}
	res := Evaluate(records, pairs)
	assert.Equal(t, 2, res.TruePositives)
	assert.Zero(t, res.FalsePositives)
	assert.InDelta(t, 1.0, res.FMeasure, 1e-9)
}

func TestReadLinks(t *testing.T) {
	s, _ := fixture(t)
	links, err := ReadLinks(strings.NewReader("id_A,id_B,similarity\n1,1,0.9\n2,2,1\n"), s)
	require.NoError(t, err)
	assert.Equal(t, []Link{{"1", "1"}, {"2", "2"}}, links)

	links, err = ReadLinks(strings.NewReader("5,6\n"), s)
	require.NoError(t, err)
	assert.Equal(t, []Link{{"5", "6"}}, links)

	_, err = ReadLinks(strings.NewReader("1\n"), s)
	assert.ErrorIs(t, err, pprlerr.ErrInvalidArgument)
}
