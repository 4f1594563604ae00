package solution

// Unit is the capability handle of one day's solution.
type Unit interface {
	// RunPart computes the answer of part 1 or 2.
	RunPart(part int, in *Input) (Answer, error)
}

// Preparer is implemented by units that parse the input once before the
// parts run. Timed runs measure it separately.
type Preparer interface {
	Prepare(in *Input) error
}

// PartFunc is the signature of a part entry point.
type PartFunc func(in *Input) (any, error)

// FuncUnit adapts plain functions to Unit. A nil part has no answer yet.
type FuncUnit struct {
	PrepareFunc func(in *Input) error
	PartOne     PartFunc
	PartTwo     PartFunc
}

// RunPart implements Unit.
func (u FuncUnit) RunPart(part int, in *Input) (Answer, error) {
	var fn PartFunc
	switch part {
	case 1:
		fn = u.PartOne
	case 2:
		fn = u.PartTwo
	default:
		return "", newError(ErrCodeInvalidPart, "part %d does not exist", part)
	}
	if fn == nil {
		return "", nil
	}

	v, err := fn(in)
	if err != nil {
		return "", err
	}
	return AnswerOf(v), nil
}

// Prepare implements Preparer.
func (u FuncUnit) Prepare(in *Input) error {
	if u.PrepareFunc == nil {
		return nil
	}
	return u.PrepareFunc(in)
}

// PrepareStep returns the prepare step of u, or nil when it has none.
func PrepareStep(u Unit) Preparer {
	switch u := u.(type) {
	case FuncUnit:
		if u.PrepareFunc == nil {
			return nil
		}
		return u
	case *FuncUnit:
		if u == nil || u.PrepareFunc == nil {
			return nil
		}
		return u
	case Preparer:
		return u
	}
	return nil
}
