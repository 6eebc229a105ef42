// Package app is the reducer-style orchestration layer over the stores.
//
// State management is split the same way the stores split persistence from
// shape: AppState is one immutable record, Action is an explicit sum type,
// and Reduce is a pure transition function. The Controller is the effect
// layer around them: it awaits store calls, dispatches the resulting
// actions, and owns the toast lifecycle and the bounded undo window. No
// ambient mutable globals; everything flows through the Controller.
package app
