// Package core defines the shared language of the coltype system.
//
// This package contains:
//   - Parsed type trees (ParsedType, Leaf, NestedType)
//   - Dialect data (DialectConfig)
//   - Catalog metadata (Column, TableMetadata, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
