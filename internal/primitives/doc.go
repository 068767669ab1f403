// Package primitives provides the foundational data structures for the form engine.
//
// Everything in this package is a value: keys, paths, actions, field/composite/form
// state records, and the path-indexed error tree. None of it holds locks or goroutines.
//
// Core invariants:
//   - State records are immutable once published; reducers copy on write.
//   - FieldState.Dirty == !Equal(Value, InitialValue) after every reducer step.
//   - FieldState.Valid == (Error == nil).
//   - CompositeState.Changing == (len(ChangingFields) > 0).
//
// Composite values are map[string]any (objects) and []any (arrays). Array holes are nil.
package primitives
