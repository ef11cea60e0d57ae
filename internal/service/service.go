// Package service contains the business logic.
//
// It sits between the handler and repository layers: it owns the
// session each repository call runs in and turns repository results
// into application errors.
package service
