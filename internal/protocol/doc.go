// Package protocol owns the NEX wire contract shared by the codec packages.
//
// Ownership boundary:
// - nex: byte stream, structures, polymorphic values, variants, station urls
// - rmc: request/response envelope framing
// - dispatch: protocol and method tables, direction-aware body decoding
// - tree: typed value tree for inspection tooling
package protocol
