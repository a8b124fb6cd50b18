// Package form provides a reactive tree of validated form controls.
//
// # Overview
//
// A form is a tree. Leaves are Controls holding a single string or bool
// value; interior nodes are Groups (named children) and Arrays (indexed
// children). Every node reports its validity on read, so a change to any
// control is reflected immediately in every ancestor.
//
// # Basic Usage
//
//	passwords := form.NewGroup(form.EqualValues("password", "confirmPassword")).
//	    Add("password", form.NewControl("", form.Required(""), form.MinLength(6, ""))).
//	    Add("confirmPassword", form.NewControl("", form.Required(""), form.MinLength(6, "")))
//
//	root := form.NewGroup().
//	    Add("email", form.NewControl("", form.Required(""), form.Email(""))).
//	    Add("passwords", passwords)
//
//	unsubscribe := root.Subscribe(func(c form.Change) {
//	    log.Printf("%s changed", c.Path)
//	})
//	defer unsubscribe()
//
//	_ = root.Set("passwords.password", "secret1")
//	root.Valid() // false until every control passes and the passwords match
//
// # Validation
//
// Field validators run against a single value:
//
//   - Required: value is not "" and not false
//   - Email: standard address format
//   - MinLength: at least n characters
//   - Pattern: regular expression match
//   - OneOf: value is one of a fixed set
//
// Group validators run against a group and may read any of its children
// through the Lookup capability; EqualValues is the cross-field example.
//
// Validation failures are values, never panics or returned errors: read
// them through Node.Errors and ErrorKeys.
package form
