package signup

import (
	"github.com/vango-dev/signup/pkg/form"
)

// FieldState is the view of one control.
type FieldState struct {
	Value        any               `json:"value"`
	Valid        bool              `json:"valid"`
	Touched      bool              `json:"touched"`
	Dirty        bool              `json:"dirty"`
	ShowsInvalid bool              `json:"showsInvalid"`
	Errors       map[string]string `json:"errors,omitempty"`
}

// GroupState is the view of a group or array.
type GroupState struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// State is a read-only snapshot of the whole form for a rendering layer.
type State struct {
	Valid             bool                  `json:"valid"`
	Values            map[string]any        `json:"values"`
	Fields            map[string]FieldState `json:"fields"`
	Groups            map[string]GroupState `json:"groups"`
	EmailIsInvalid    bool                  `json:"emailIsInvalid"`
	PasswordIsInvalid bool                  `json:"passwordIsInvalid"`
}

// Snapshot captures the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, _ := f.root.Value().(map[string]any)
	st := State{
		Valid:  f.root.Valid(),
		Values: values,
		Fields: make(map[string]FieldState),
		Groups: make(map[string]GroupState),
	}

	form.Walk(f.root, func(path string, n form.Node) {
		if c, ok := n.(*form.Control); ok {
			st.Fields[path] = FieldState{
				Value:        c.Value(),
				Valid:        c.Valid(),
				Touched:      c.Touched(),
				Dirty:        c.Dirty(),
				ShowsInvalid: c.ShowsInvalid(),
				Errors:       errorMap(c.Errors()),
			}
			return
		}
		st.Groups[path] = GroupState{
			Valid:  n.Valid(),
			Errors: errorMap(n.Errors()),
		}
	})

	st.EmailIsInvalid = st.Fields[FieldEmail].ShowsInvalid
	st.PasswordIsInvalid = st.Fields[FieldPassword].ShowsInvalid
	return st
}

func errorMap(errs []error) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, err := range errs {
		if ve, ok := err.(form.ValidationError); ok {
			m[ve.Key] = ve.Message
			continue
		}
		m[err.Error()] = err.Error()
	}
	return m
}
