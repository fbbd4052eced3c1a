// Package nex implements the NEX data serialization layer: a little-endian
// byte stream bound to a connection context, versioned structures with parent
// chains, polymorphic holders resolved through a registry, tagged variants and
// station urls.
//
// Decoding is synchronous and owns no shared mutable state beyond the
// registry, which is populated before decoding starts. Separate streams may be
// decoded concurrently.
package nex
