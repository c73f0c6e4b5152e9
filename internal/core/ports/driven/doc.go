// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ElementSource: Pages of attribute elements (SQLite, memory or remote)
//   - FilterStore: Saved filter persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ElementStore: Writable element storage. Remote sources are read-only,
//     so import is unavailable when only a remote source is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
