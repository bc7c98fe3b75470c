package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/similarity"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterFunctions registers bf_jaccard and bf_dice with the driver so they
// are available on connections opened after the first call. Both take two
// BLOBs produced by bloom.EncodeFilter and return NULL when either is NULL.
// Open calls it; connections opened before the first call do not see the
// functions.
func RegisterFunctions() error {
	registerOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("bf_jaccard", 2, scalar("bf_jaccard", similarity.Jaccard)); err != nil {
			registerErr = fmt.Errorf("engine: register bf_jaccard: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("bf_dice", 2, scalar("bf_dice", similarity.Dice)); err != nil {
			registerErr = fmt.Errorf("engine: register bf_dice: %w", err)
		}
	})
	return registerErr
}

// FunctionName returns the SQL function computing metric.
func FunctionName(metric similarity.Metric) string {
	if metric == similarity.MetricDice {
		return "bf_dice"
	}
	return "bf_jaccard"
}

func asFilter(name string, arg driver.Value) (*bloom.Encoding, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bloom.DecodeFilter(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T for filter; want BLOB", name, arg)
	}
}

func scalar(name string, fn similarity.Func) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asFilter(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := asFilter(name, args[1])
		if err != nil {
			return nil, err
		}
		if a == nil || b == nil {
			return nil, nil
		}
		sim, err := fn(a, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return sim, nil
	}
}
