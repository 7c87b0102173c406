package nuklei

import (
	"fmt"
	"math"

	"github.com/arloliu/nuklei/errs"
)

func checkArity(args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: expected %d arguments, got %d", errs.ErrInvalidArgument, want, len(args))
	}

	return nil
}

// The fnN adapters turn typed functions into Func values. Each argument is
// converted by a function taking the argument list and an index.

func fn0[R any](f func() R) Func {
	return func(args ...any) (any, error) {
		if err := checkArity(args, 0); err != nil {
			return nil, err
		}

		return f(), nil
	}
}

func fn1[A, R any](a func([]any, int) (A, error), f func(A) R) Func {
	return func(args ...any) (any, error) {
		if err := checkArity(args, 1); err != nil {
			return nil, err
		}
		v, err := a(args, 0)
		if err != nil {
			return nil, err
		}

		return f(v), nil
	}
}

func fn1E[A, R any](a func([]any, int) (A, error), f func(A) (R, error)) Func {
	return func(args ...any) (any, error) {
		if err := checkArity(args, 1); err != nil {
			return nil, err
		}
		v, err := a(args, 0)
		if err != nil {
			return nil, err
		}

		return f(v)
	}
}

func fn2E[A, B, R any](a func([]any, int) (A, error), b func([]any, int) (B, error), f func(A, B) (R, error)) Func {
	return func(args ...any) (any, error) {
		if err := checkArity(args, 2); err != nil {
			return nil, err
		}
		va, err := a(args, 0)
		if err != nil {
			return nil, err
		}
		vb, err := b(args, 1)
		if err != nil {
			return nil, err
		}

		return f(va, vb)
	}
}

func fn3E[A, B, C, R any](a func([]any, int) (A, error), b func([]any, int) (B, error), c func([]any, int) (C, error), f func(A, B, C) (R, error)) Func {
	return func(args ...any) (any, error) {
		if err := checkArity(args, 3); err != nil {
			return nil, err
		}
		va, err := a(args, 0)
		if err != nil {
			return nil, err
		}
		vb, err := b(args, 1)
		if err != nil {
			return nil, err
		}
		vc, err := c(args, 2)
		if err != nil {
			return nil, err
		}

		return f(va, vb, vc)
	}
}

// fnVariadicE adapts a function with one required and any number of optional
// arguments of the same type.
func fnVariadicE[A, R any](a func([]any, int) (A, error), f func(A, ...A) (R, error)) Func {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: expected at least 1 argument", errs.ErrInvalidArgument)
		}

		values := make([]A, len(args))
		for i := range args {
			v, err := a(args, i)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		return f(values[0], values[1:]...)
	}
}

func valueArg[T any](args []any, i int) (T, error) {
	v, ok := args[i].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: argument %d is %T, want %T", errs.ErrInvalidArgument, i, args[i], zero)
	}

	return v, nil
}

// textArg accepts a string, a *string or nil, the last two standing for an
// absent value when nil.
func textArg(args []any, i int) (*string, error) {
	switch v := args[i].(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case *string:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: argument %d is %T, want string", errs.ErrInvalidArgument, i, args[i])
	}
}

func int64Arg(args []any, i int) (int64, error) {
	switch v := args[i].(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: argument %d is %T, want integer", errs.ErrInvalidArgument, i, args[i])
	}
}

func intArg(args []any, i int) (int, error) {
	v, err := int64Arg(args, i)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%w: argument %d overflows int", errs.ErrInvalidArgument, i)
	}

	return int(v), nil
}
