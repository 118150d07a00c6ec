// Package sv2 owns the Stratum V2 message catalog and payload codecs.
//
// Ownership boundary:
// - message-type codes, channel bits and protocol discriminants
// - typed message structs for all four sub-protocols
// - little-endian payload serialization primitives
package sv2
