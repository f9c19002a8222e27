// Package store defines the persistence interfaces consumed by the
// service layer: the durable counter tier, the TTL-bounded counter cache,
// and the write-once artifact snapshot store. Implementations live under
// internal/platform; sentinel errors defined here are the contract
// callers inspect with errors.Is.
package store
