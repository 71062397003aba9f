package plugging

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Operations is a bit set describing which operations of a core interface a
// module's implementation honors. Each operation of an interface occupies one
// bit; callers usually declare them as typed constants:
//
//	const (
//		OpRead plugging.Operations = 1 << iota
//		OpWrite
//	)
type Operations uint64

const (
	// NoOperations is the empty set. Passed to Registry.Supports it means
	// "no particular operation", i.e. only the interface itself is checked.
	NoOperations Operations = 0

	// AllOperations is the set used when a registrant does not restrict the
	// operations of a service.
	AllOperations Operations = ^Operations(0)
)

// Has reports whether every bit of op is set in o.
func (o Operations) Has(op Operations) bool {
	return o&op == op
}

// Union returns the operations present in either set.
func (o Operations) Union(other Operations) Operations {
	return o | other
}

// Without returns o with the bits of other cleared.
func (o Operations) Without(other Operations) Operations {
	return o &^ other
}

// Count returns the number of operations in the set.
func (o Operations) Count() int {
	return bits.OnesCount64(uint64(o))
}

// String renders the set as hex, or "all"/"none" for the sentinels.
func (o Operations) String() string {
	switch o {
	case AllOperations:
		return "all"
	case NoOperations:
		return "none"
	default:
		return fmt.Sprintf("0x%x", uint64(o))
	}
}

// Operation names a single operation bit within an OperationSet.
type Operation struct {
	Name string
	Bit  Operations
}

// Op is shorthand for building an Operation.
func Op(name string, bit Operations) Operation {
	return Operation{Name: name, Bit: bit}
}

// OperationSet is the universe of operations defined for one core interface.
// It gives bits human-readable names and computes supported operations from
// the unsupported ones a registrant declares.
type OperationSet struct {
	name   string
	ops    []Operation
	byName map[string]Operations
	all    Operations
}

// NewOperationSet defines an operation universe. Every operation must be a
// single, distinct bit with a unique (case-insensitive) name.
func NewOperationSet(name string, ops ...Operation) (*OperationSet, error) {
	if name == "" {
		return nil, ErrOperationSetNameEmpty
	}

	set := &OperationSet{
		name:   name,
		ops:    make([]Operation, 0, len(ops)),
		byName: make(map[string]Operations, len(ops)),
	}
	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("%w in set %s", ErrOperationNameEmpty, name)
		}
		if op.Bit.Count() != 1 {
			return nil, fmt.Errorf("%w: %s.%s is %s", ErrOperationNotSingleBit, name, op.Name, op.Bit)
		}
		key := strings.ToLower(op.Name)
		if _, exists := set.byName[key]; exists || set.all.Has(op.Bit) {
			return nil, fmt.Errorf("%w: %s.%s", ErrOperationDuplicate, name, op.Name)
		}
		set.byName[key] = op.Bit
		set.all |= op.Bit
		set.ops = append(set.ops, op)
	}
	sort.Slice(set.ops, func(i, j int) bool { return set.ops[i].Bit < set.ops[j].Bit })
	return set, nil
}

// MustOperationSet is like NewOperationSet but panics on error. It is meant
// for package-level variable initialization.
func MustOperationSet(name string, ops ...Operation) *OperationSet {
	set, err := NewOperationSet(name, ops...)
	if err != nil {
		panic(err)
	}
	return set
}

// Name returns the set's name, usually the name of its core interface.
func (s *OperationSet) Name() string {
	return s.name
}

// All returns every operation in the universe.
func (s *OperationSet) All() Operations {
	return s.all
}

// Operations returns the defined operations ordered by bit.
func (s *OperationSet) Operations() []Operation {
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}

// Supported converts a set of unsupported operations into the supported set
// by XOR-ing it against the universe. Bits outside the universe are ignored.
func (s *OperationSet) Supported(unsupported Operations) Operations {
	return s.all ^ (unsupported & s.all)
}

// Lookup returns the bit for a single operation name.
func (s *OperationSet) Lookup(name string) (Operations, bool) {
	bit, ok := s.byName[strings.ToLower(name)]
	return bit, ok
}

// Parse combines the named operations into a set.
func (s *OperationSet) Parse(names ...string) (Operations, error) {
	var out Operations
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		bit, ok := s.Lookup(n)
		if !ok {
			return NoOperations, fmt.Errorf("%w %q in set %s", ErrUnknownOperation, n, s.name)
		}
		out |= bit
	}
	return out, nil
}

// Names returns the names of the operations of the universe present in ops,
// ordered by bit.
func (s *OperationSet) Names(ops Operations) []string {
	names := make([]string, 0, len(s.ops))
	for _, op := range s.ops {
		if ops.Has(op.Bit) {
			names = append(names, op.Name)
		}
	}
	return names
}

// Format renders ops as "name|name" using the universe's names.
func (s *OperationSet) Format(ops Operations) string {
	names := s.Names(ops)
	if len(names) == 0 {
		return NoOperations.String()
	}
	return strings.Join(names, "|")
}
