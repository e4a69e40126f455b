// Package registry builds the gateway fleet one instance owns.
//
// Given the instance's edge-index range and the configured districts, Build
// produces one Gateway per index: identity, owning district, location
// (district center plus a small random offset), per-type sensor descriptors
// and a fixed sampling interval. All randomness is drawn once at build time
// from a PRNG seeded per gateway, so a fleet layout is reproducible for a
// fixed seed.
//
// District lookup is a linear scan in configured order; an index that falls
// in no district's range is assigned to the first configured district. This
// permissive fallback keeps misconfigured coverage non-fatal.
package registry
