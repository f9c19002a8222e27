// Package service contains the application use cases: the deck
// generation orchestrator and its supporting services (credit quota in
// service/credit, bearer auth in service/auth, deck materialization in
// service/template). Services receive their collaborators through
// constructor injection and depend only on domain types and the
// interfaces in internal/store, never on concrete infrastructure.
//
// Errors crossing the service boundary are classified by the sentinels
// in errors.go so the API layer can map them to status codes without
// inspecting error strings.
package service
