package object

import (
	"bytes"
	"log/slog"
)

// Environment maps identifiers to values. It is persistent: Bind and Extend return a new
// environment and never modify the receiver, so a closure holding an environment holds a
// snapshot and no two scopes can observe each other's later bindings.
type Environment struct {
	head *binding
	size int
}

type binding struct {
	name  string
	value Object
	next  *binding
}

func NewEnvironment() *Environment {
	return &Environment{}
}

func (e *Environment) find(name string) (*binding, bool) {
	for b := e.head; b != nil; b = b.next {
		if b.name == name {
			return b, true
		}
	}
	return nil, false
}

func (e *Environment) Get(name string) (Object, bool) {
	b, ok := e.find(name)
	if !ok {
		return nil, false
	}
	return b.value, true
}

func (e *Environment) Lookup(name string) (Object, error) {
	val, ok := e.Get(name)
	if !ok {
		return nil, NewError(ErrUnboundIdentifier, "`%s` is not defined", name)
	}
	return val, nil
}

// Bind returns a new environment with name bound to val. Variables are write-once, so binding
// a name this scope already holds is an error.
func (e *Environment) Bind(name string, val Object) (*Environment, error) {
	if _, exists := e.find(name); exists {
		return nil, NewError(ErrDuplicateBinding, "`%s` is already defined and cannot be reassigned", name)
	}
	slog.Debug("bind",
		slog.String("name", name),
		slog.String("value", val.Inspect()))
	return e.push(name, val), nil
}

// Extend builds a call frame: the receiver plus one binding per parameter. Parameters shadow
// names from the receiver but must be distinct from each other.
func (e *Environment) Extend(names []string, values []Object) (*Environment, error) {
	if len(names) != len(values) {
		return nil, NewError(ErrArityMismatch, "expected %d arguments, got %d", len(names), len(values))
	}
	seen := make(map[string]struct{}, len(names))
	frame := e
	for i, name := range names {
		if _, dup := seen[name]; dup {
			return nil, NewError(ErrDuplicateBinding, "parameter `%s` is declared more than once", name)
		}
		seen[name] = struct{}{}
		frame = frame.push(name, values[i])
	}
	return frame, nil
}

func (e *Environment) push(name string, val Object) *Environment {
	return &Environment{
		head: &binding{name: name, value: val, next: e.head},
		size: e.size + 1,
	}
}

// Len counts visible bindings.
func (e *Environment) Len() int {
	return len(e.Names())
}

// Names lists the visible identifiers in the order they were bound.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{}, e.size)
	var names []string
	for b := e.head; b != nil; b = b.next {
		if _, ok := seen[b.name]; ok {
			continue
		}
		seen[b.name] = struct{}{}
		names = append(names, b.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func (e *Environment) Inspect() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, name := range e.Names() {
		if i > 0 {
			out.WriteString(", ")
		}
		val, _ := e.Get(name)
		out.WriteString(name + ": " + val.Inspect())
	}
	out.WriteString("}")
	return out.String()
}
