// Package errors provides structured, actionable error messages for signup.
//
// Every infrastructure failure (bad configuration, an unreachable draft store,
// an unknown form path) is reported as a *SignupError carrying a stable code:
//
//   - E1xx: configuration
//   - E2xx: draft storage
//   - E3xx: form paths and values
//
// Validation failures of user input are not errors and never pass through
// this package; see pkg/form.
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail("dial tcp 127.0.0.1:6379: connect: connection refused").
//	    WithSuggestion("Check storage.redis.addr in signup.json")
//
//	errors.PrintError(err)
//	// ERROR E201: Draft store unavailable
//	//
//	//   dial tcp 127.0.0.1:6379: connect: connection refused
//	//
//	//   Hint: Check storage.redis.addr in signup.json
package errors
