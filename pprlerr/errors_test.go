package pprlerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
		msg  string
	}{
		{Config("unknown scheme %q", "x"), ErrConfig, `config error: unknown scheme "x"`},
		{InvalidArgument("arity %d", 3), ErrInvalidArgument, "invalid argument: arity 3"},
		{NotFound("attribute %q", "zip"), ErrNotFound, `not found: attribute "zip"`},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.kind) {
			t.Fatalf("errors.Is(%v, %v) = false, want true", c.err, c.kind)
		}
		if c.err.Error() != c.msg {
			t.Fatalf("Error() = %q, want %q", c.err.Error(), c.msg)
		}
		wrapped := fmt.Errorf("bloom: %w", c.err)
		if !errors.Is(wrapped, c.kind) {
			t.Fatalf("wrapped error lost its kind: %v", wrapped)
		}
	}
}
