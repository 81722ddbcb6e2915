package ovf

import "github.com/reshop/reshop-core/rhperr"

// Library is the flat name -> Template lookup table, spec.md §4.4's
// "the library itself is a flat name -> vtable lookup table".
type Library struct {
	templates map[string]Template
}

// NewLibrary returns a Library pre-populated with the fixed catalog: l1, l2,
// elastic_net, huber, hinge, vapnik, cvar_quantile, expected_value.
func NewLibrary() *Library {
	l := &Library{templates: make(map[string]Template)}
	l.register(l1Template{})
	l.register(l2Template{})
	l.register(elasticNetTemplate{rho: 0.5})
	l.register(huberTemplate{delta: 1})
	l.register(hingeTemplate{})
	l.register(vapnikTemplate{epsilon: 0.1})
	l.register(cvarQuantileTemplate{alpha: 0.95})
	l.register(expectedValueTemplate{})

	return l
}

func (l *Library) register(t Template) { l.templates[t.Name()] = t }

// Lookup returns the template registered under name, or an EMPIncorrectInput
// error if none is registered.
func (l *Library) Lookup(name string) (Template, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, rhperr.New(rhperr.EMPIncorrectInput, "ovf: no template registered under name %q", name)
	}

	return t, nil
}

// Names returns every registered template name.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.templates))
	for name := range l.templates {
		out = append(out, name)
	}

	return out
}
