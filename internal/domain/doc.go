// Package domain contains the core entities of the deck generation
// service: credit accounts for anonymous quota tracking, generation
// requests, decks with their slides and image attachments, and artifact
// identities for the persisted draft/final snapshots.
//
// Domain types carry their own validation and have no dependencies on
// storage, transport, or provider packages.
package domain
