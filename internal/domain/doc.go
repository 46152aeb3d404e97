// Package domain defines the core business entities of the block queue:
// categories, blocks, tasks, and quotes, along with their validation rules
// and domain-level errors.
//
// Entities are plain structs with constructor functions that generate IDs
// and timestamps, and Validate methods that enforce the same invariants the
// persistence layer mirrors as check constraints. Mutations that must keep
// fields paired (completed/completed_at) are expressed as methods so callers
// cannot desynchronize them.
package domain
