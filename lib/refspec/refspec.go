package refspec

import (
	"fmt"
	"strings"

	"git-refspec/lib/oid"
)

const (
	wildcard  = "*"
	force     = "+"
	negate    = "^"
	separator = ":"
)

type Operation int

const (
	Fetch Operation = iota
	Push
)

func (o Operation) String() string {
	if o == Push {
		return "push"
	}
	return "fetch"
}

type Mode int

const (
	Positive Mode = iota
	// Negative specs remove mappings produced by positive ones.
	Negative
)

type InvalidRefSpecError struct {
	msg string
}

func (e *InvalidRefSpecError) Error() string {
	return e.msg
}

// RefSpec is an already validated refspec. An empty Src or Dst means
// that side is absent.
type RefSpec struct {
	Op    Operation
	Mode  Mode
	Src   string
	Dst   string
	Force bool
}

func NewRefSpec(source, target string, forced bool) RefSpec {
	return RefSpec{
		Op:    Fetch,
		Src:   source,
		Dst:   target,
		Force: forced,
	}
}

// DefaultFetchSpec is the spec written for a newly added remote that
// tracks branch.
func DefaultFetchSpec(remote, branch string) RefSpec {
	return NewRefSpec(
		"refs/heads/"+branch,
		"refs/remotes/"+remote+"/"+branch,
		true,
	)
}

// Parse reads [+][^]<src>[:<dst>] for the given operation.
func Parse(op Operation, spec string) (RefSpec, error) {
	r := RefSpec{Op: op}
	rest := spec

	if strings.HasPrefix(rest, force) {
		r.Force = true
		rest = rest[len(force):]
	}
	if strings.HasPrefix(rest, negate) {
		r.Mode = Negative
		rest = rest[len(negate):]
	}

	if i := strings.Index(rest, separator); i >= 0 {
		r.Src, r.Dst = rest[:i], rest[i+1:]
		if strings.Contains(r.Dst, separator) {
			return RefSpec{}, invalid(spec, "more than one ':'")
		}
	} else {
		r.Src = rest
	}

	if err := r.validate(); err != nil {
		return RefSpec{}, invalid(spec, err.Error())
	}
	return r, nil
}

func MustParse(op Operation, spec string) RefSpec {
	r, err := Parse(op, spec)
	if err != nil {
		panic(err.Error())
	}
	return r
}

func ParseAll(op Operation, specs []string) ([]RefSpec, error) {
	parsed := make([]RefSpec, 0, len(specs))
	for _, s := range specs {
		r, err := Parse(op, s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}
	return parsed, nil
}

func invalid(spec, reason string) error {
	return &InvalidRefSpecError{
		msg: fmt.Sprintf("invalid refspec '%s': %s", spec, reason),
	}
}

func (r RefSpec) validate() error {
	src := strings.Count(r.Src, wildcard)
	dst := strings.Count(r.Dst, wildcard)

	switch {
	case src > 1 || dst > 1:
		return fmt.Errorf("more than one '%s' on a side", wildcard)
	case src == 1 && r.Dst != "" && dst == 0:
		return fmt.Errorf("source is a pattern but destination is not")
	case dst == 1 && src == 0:
		return fmt.Errorf("destination is a pattern but source is not")
	}

	if r.Mode == Negative {
		if r.Dst != "" {
			return fmt.Errorf("negative refspecs must not have a destination")
		}
		if oid.IsHex(r.Src) {
			return fmt.Errorf("negative refspecs must not name an object id")
		}
		if r.Src == "" {
			return fmt.Errorf("negative refspecs need a source")
		}
	}
	if r.Src == "" && r.Dst == "" && r.Op == Fetch {
		return fmt.Errorf("empty refspec")
	}
	return nil
}

func (r RefSpec) String() string {
	spec := ""
	if r.Force {
		spec += force
	}
	if r.Mode == Negative {
		spec += negate
	}
	spec += r.Src
	if r.Dst != "" {
		spec += separator + r.Dst
	}
	return spec
}
