// Package primitives provides the foundational, zero-dependency data structures
// for the board engine.
//
// This package uses ONLY the Go standard library. Everything here is a value
// type or a fixed-size table so the engine never allocates on the tick path:
//   - RequestKind and its Family, range and description metadata
//   - Catalog (per-board channel mapping and enabled kinds)
//   - Request (one Active Request Table row)
//   - MsgKind and the fixed-size Packet wire codec
//   - BoardConfig and its validation
//
// Core invariants:
//   - A Packet is always exactly PacketSize bytes on air
//   - Every RequestKind belongs to exactly one Family
//   - Catalog lookups never index outside NumKinds
package primitives
