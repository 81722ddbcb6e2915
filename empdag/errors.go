package empdag

import "github.com/reshop/reshop-core/rhperr"

func finalizeErr(mp *MathPrgm, format string, args ...interface{}) *rhperr.Error {
	e := rhperr.New(rhperr.EMPIncorrectInput, format, args...)

	return e.WithEntity(mp.displayName())
}

func (mp *MathPrgm) displayName() string {
	if mp.Name != "" {
		return mp.Name
	}

	return mp.ID.String()
}
