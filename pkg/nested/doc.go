// Package nested classifies and decomposes structural SQL column types.
//
// A type descriptor such as
//
//	array<struct<amount:bigint,id:string>>
//
// is split into a tree of core.NestedType nodes whose Head and Tail carry the
// literal delimiter text and whose Children hold the members in source order.
// The tree backs a collapsed label ("array<...>") and an expandable view.
//
// Which types count as nested is decided per dialect by the keyword tables in
// pkg/dialects. Unknown dialects never classify a type as nested.
package nested
