package framekit

import (
	"fmt"

	"github.com/gogpu/framekit/binding"
	"github.com/gogpu/framekit/shader"
	"github.com/gogpu/framekit/uservar"
	"github.com/gogpu/framekit/value"
)

// Property is a value a host can show and edit: a user variable, or a
// shader constant the script left unbound.
type Property struct {
	Name string

	// Shader is the program owning a constant, or "" for user variables.
	Shader string

	Shape value.Shape
	Value value.Value

	// Var is the user variable, or nil for shader constants.
	Var *uservar.Var

	table  *binding.Table
	handle binding.Handle
}

// Set changes the property. Shader constants become literals on the
// session's binding table.
func (p Property) Set(v any) error {
	if p.Var != nil {
		return p.Var.Set(v)
	}
	if p.table == nil {
		return fmt.Errorf("framekit: property %q is read-only", p.Name)
	}
	val, err := value.FromAny(v)
	if err != nil {
		return fmt.Errorf("framekit: property %q: %w", p.Name, err)
	}
	conv, ok := value.Convert(val, p.Shape)
	if !ok {
		return &binding.TypeMismatchError{Variable: p.Name, Want: p.Shape, Got: val}
	}
	p.table.SetBinding(p.handle, binding.Literal(conv))
	return nil
}

type exposedVar struct {
	shader *Shader
	handle binding.Handle
}

// exposeConstants lists the constants left unbound after setup.
func exposeConstants(shaders []*Shader) []exposedVar {
	var out []exposedVar
	seen := make(map[*binding.Table]bool)
	for _, sh := range shaders {
		if seen[sh.table] {
			continue
		}
		seen[sh.table] = true
		for _, h := range sh.table.Handles() {
			if h.Desc().Kind == shader.Constant && h.Binding().Mode() == binding.ModeUnbound {
				out = append(out, exposedVar{shader: sh, handle: h})
			}
		}
	}
	return out
}

// Properties returns the user variables in registration order followed by
// the shader constants the last successful setup left unbound.
func (s *Session) Properties() []Property {
	var props []Property
	for _, v := range s.vars.Vars() {
		props = append(props, Property{
			Name:  v.Name(),
			Shape: v.Type().Shape(),
			Value: v.Get(),
			Var:   v,
		})
	}

	s.mu.Lock()
	exposed := s.exposed
	s.mu.Unlock()
	for _, e := range exposed {
		desc := e.handle.Desc()
		val := desc.Default
		if lit, ok := e.handle.Binding().Literal(); ok {
			val = lit
		}
		props = append(props, Property{
			Name:   desc.Name,
			Shader: e.shader.String(),
			Shape:  desc.Shape,
			Value:  val,
			table:  e.shader.table,
			handle: e.handle,
		})
	}
	return props
}
