package tools

import (
	"context"
	"sort"
)

// Func is a tool entry point over normalized arguments. It always returns
// a payload; failures are encoded in the envelope.
type Func func(ctx context.Context, args Arguments) Payload

// Registry maps tool names to entry points so transports can dispatch by
// name without knowing the tool set.
type Registry struct {
	byName map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Func)}
}

func (r *Registry) Register(name string, fn Func) {
	r.byName[name] = fn
}

// Invoke normalizes the raw input and runs the named tool. The second
// return is false when the tool does not exist.
func (r *Registry) Invoke(ctx context.Context, name string, input any) (Payload, bool) {
	fn, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return fn(ctx, ParseArguments(input)), true
}

// Names returns the registered tool names sorted for stable listings.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
