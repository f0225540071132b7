package vm

import (
	"math"

	"github.com/ardnew/plume/lang/ast"
	"github.com/ardnew/plume/lang/intern"
	"github.com/ardnew/plume/lang/span"
	"github.com/ardnew/plume/lang/value"
)

// eval evaluates e. The caller owns the result: it must store it or
// release it.
func (vm *VM) eval(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Number:
		return value.Number(n.Value), nil

	case *ast.String:
		return value.String(n.Value), nil

	case *ast.Bool:
		return value.Bool(n.Value), nil

	case *ast.Ident:
		slot, ok := vm.lookup(n.Name)
		if !ok {
			return value.Null(), &NonexistentVariableError{Name: vm.names.Resolve(n.Name), At: n.Loc}
		}

		return slot.Share(), nil

	case *ast.Binary:
		return vm.evalBinary(n)

	case *ast.Unary:
		v, err := vm.eval(n.Operand)
		if err != nil {
			return value.Null(), err
		}

		out, ok := value.Unary(n.Op, v)
		if !ok {
			return value.Null(), &InvalidUnaryOperandError{Op: n.Op, Operand: v.Type(), At: n.Loc}
		}

		return out, nil

	case *ast.Block:
		vm.push(normalScope)
		defer vm.pop()

		return vm.Exec(n)

	case *ast.Array:
		arr := value.Array(make([]value.Value, 0, len(n.Elems))...)

		for _, elem := range n.Elems {
			v, err := vm.eval(elem)
			if err != nil {
				arr.Release()

				return value.Null(), err
			}

			arr.Append(v)
		}

		return arr, nil

	case *ast.Index:
		base, err := vm.eval(n.Base)
		if err != nil {
			return value.Null(), err
		}
		defer base.Release()

		idx, err := vm.eval(n.Index)
		if err != nil {
			return value.Null(), err
		}

		_, elem, err := vm.index(&base, idx, n.Loc, false)

		return elem, err

	case *ast.Assign:
		return vm.evalAssign(n)

	case *ast.Dbg:
		v, err := vm.eval(n.X)
		if err != nil {
			return value.Null(), err
		}

		vm.sink.Log(v.String())

		return v, nil

	case *ast.If:
		cond, err := vm.condition(n.Cond)
		if err != nil {
			return value.Null(), err
		}

		switch {
		case cond:
			return vm.eval(n.Then)
		case n.Else != nil:
			return vm.eval(n.Else)
		default:
			return value.Null(), nil
		}

	case *ast.While:
		return vm.loop(n.Cond, n.Body, nil)

	case *ast.For:
		vm.push(normalScope)
		defer vm.pop()

		init, err := vm.eval(n.Init)
		if err != nil {
			return value.Null(), err
		}

		init.Release()

		return vm.loop(n.Cond, n.Body, n.Step)

	case *ast.Declaration:
		v, err := vm.eval(n.Init)
		if err != nil {
			return value.Null(), err
		}

		vm.bind(n.Name, v)

		return value.Null(), nil

	case *ast.Function:
		return value.NewFunction(n), nil

	case *ast.Call:
		return vm.evalCall(n)

	default:
		panic("vm: unexpected expression type")
	}
}

func (vm *VM) evalBinary(n *ast.Binary) (value.Value, error) {
	lhs, err := vm.eval(n.LHS)
	if err != nil {
		return value.Null(), err
	}
	defer lhs.Release()

	rhs, err := vm.eval(n.RHS)
	if err != nil {
		return value.Null(), err
	}
	defer rhs.Release()

	out, ok := value.Binary(n.Op, lhs, rhs)
	if !ok {
		return value.Null(), &InvalidOperandsError{Op: n.Op, LHS: lhs.Type(), RHS: rhs.Type(), At: n.Loc}
	}

	return out, nil
}

// condition evaluates e and requires a boolean.
func (vm *VM) condition(e ast.Expr) (bool, error) {
	v, err := vm.eval(e)
	if err != nil {
		return false, err
	}
	defer v.Release()

	if v.Type() != value.TypeBool {
		return false, &NonBooleanConditionError{Found: v.Type(), At: e.Span()}
	}

	return v.Truth(), nil
}

// loop evaluates body, then step if not nil, while cond holds. It returns
// the value of the last evaluation of body, or null.
func (vm *VM) loop(cond, body, step ast.Expr) (value.Value, error) {
	out := value.Null()

	for {
		if err := vm.interrupted(); err != nil {
			out.Release()

			return value.Null(), err
		}

		ok, err := vm.condition(cond)
		if err != nil {
			out.Release()

			return value.Null(), err
		}

		if !ok {
			return out, nil
		}

		out.Release()

		if out, err = vm.eval(body); err != nil {
			return value.Null(), err
		}

		if step != nil {
			v, err := vm.eval(step)
			if err != nil {
				out.Release()

				return value.Null(), err
			}

			v.Release()
		}
	}
}

func (vm *VM) evalAssign(n *ast.Assign) (value.Value, error) {
	v, err := vm.eval(n.Value)
	if err != nil {
		return value.Null(), err
	}

	slot, err := vm.resolve(n.Place)
	if err != nil {
		v.Release()

		return value.Null(), err
	}

	if op, ok := n.Op.Binary(); ok {
		out, ok := value.Binary(op, *slot, v)
		v.Release()

		if !ok {
			return value.Null(), &InvalidOperandsError{Op: op, LHS: slot.Type(), RHS: v.Type(), At: n.Loc}
		}

		v = out
	}

	old := *slot
	*slot = v
	old.Release()

	return value.Null(), nil
}

// resolve returns the storage a place refers to. Index expressions are
// evaluated before the storage of their base is located, so no evaluation
// can invalidate the returned pointer.
func (vm *VM) resolve(p ast.Place) (*value.Value, error) {
	switch n := p.(type) {
	case *ast.VarPlace:
		slot, ok := vm.lookup(n.Name)
		if !ok {
			return nil, &NonexistentVariableError{Name: vm.names.Resolve(n.Name), At: n.Loc}
		}

		return slot, nil

	case *ast.IndexPlace:
		idx, err := vm.eval(n.Index)
		if err != nil {
			return nil, err
		}

		base, err := vm.resolve(n.Base)
		if err != nil {
			idx.Release()

			return nil, err
		}

		ref, created, err := vm.index(base, idx, n.Loc, true)
		if err != nil {
			return nil, err
		}

		if ref == nil {
			created.Release()

			return nil, &InvalidAssignError{At: n.Loc}
		}

		return ref, nil

	default:
		panic("vm: unexpected place type")
	}
}

// index applies idx to the value stored at base. When mutable is set, array
// elements are returned as storage, unsharing the array first; otherwise
// elements are returned as new holders. String characters are always new
// values.
func (vm *VM) index(base *value.Value, idx value.Value, at span.Span, mutable bool) (*value.Value, value.Value, error) {
	defer idx.Release()

	bt := base.Type()
	if (bt != value.TypeString && bt != value.TypeArray) || idx.Type() != value.TypeNumber {
		return nil, value.Null(), &CannotIndexError{Base: bt, Index: idx.Type(), At: at}
	}

	n := idx.Num()
	if math.Trunc(n) != n {
		return nil, value.Null(), &FractionalIndexError{Index: n, At: at}
	}

	length := base.Len()
	if n >= 0 && n < float64(length) {
		i := int(n)

		switch {
		case bt == value.TypeArray && mutable:
			return base.Elem(i), value.Null(), nil
		case bt == value.TypeArray:
			return nil, base.At(i), nil
		}

		c, _ := base.CharAt(i)

		return nil, value.String(c), nil
	}

	return nil, value.Null(), &IndexOutOfBoundsError{Index: saturate(n), Base: bt, Length: length, At: at}
}

// saturate converts a whole number to int64, clamping at the bounds.
func saturate(n float64) int64 {
	switch {
	case n >= math.MaxInt64:
		return math.MaxInt64
	case n <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(n)
	}
}

func (vm *VM) evalCall(n *ast.Call) (value.Value, error) {
	callee, err := vm.eval(n.Base)
	if err != nil {
		return value.Null(), err
	}

	switch callee.Type() {
	case value.TypeFunction:
		if err := vm.interrupted(); err != nil {
			return value.Null(), err
		}

		fn := callee.Func()
		if len(fn.Params) != len(n.Args) {
			return value.Null(), &IncorrectArgAmountError{Correct: len(fn.Params), Bad: len(n.Args), At: n.Loc}
		}

		frame := scope{vars: make(map[intern.Symbol]*value.Value, len(n.Args)), kind: funcScope}

		for i, arg := range n.Args {
			v, err := vm.eval(arg)
			if err != nil {
				for _, bound := range frame.vars {
					bound.Release()
				}

				return value.Null(), err
			}

			if old, ok := frame.vars[fn.Params[i]]; ok {
				old.Release()
			}

			frame.vars[fn.Params[i]] = &v
		}

		vm.scopes = append(vm.scopes, frame)
		defer vm.pop()

		return vm.eval(fn.Body)

	case value.TypeType:
		if len(n.Args) != 1 {
			return value.Null(), &IncorrectArgAmountError{Correct: 1, Bad: len(n.Args), At: n.Loc}
		}

		v, err := vm.eval(n.Args[0])
		if err != nil {
			return value.Null(), err
		}

		to := callee.Tag()
		if v.Type() == to {
			return v, nil
		}
		defer v.Release()

		out, ok := value.Convert(v, to)
		if !ok {
			return value.Null(), &CannotConvertError{From: v.Type(), To: to, At: n.Loc}
		}

		return out, nil

	default:
		callee.Release()

		return value.Null(), &CannotCallError{Callee: callee.Type(), At: n.Base.Span()}
	}
}
