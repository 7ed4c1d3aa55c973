// Package access models who may do what in the dispatch application.
//
// The package includes:
//   - Role: the closed set of actor roles (superadmin down to cliente)
//   - RoleHierarchy: the fixed rank table used for "at least as privileged as" checks
//   - Permission and PermissionCatalog: the static permission → allowed-roles matrix
//   - Decision: the approved/denied outcome of a single check
//   - Actor: the authenticated caller (user, tenant, role) handed in by the identity layer
//
// Hierarchy and catalog are built once at start-up and never mutated, so any
// number of goroutines may query them without locking. Nothing here performs I/O.
package access
