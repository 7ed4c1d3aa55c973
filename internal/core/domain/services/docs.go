// Package services provides the domain services that answer authorization
// questions for every privileged action.
//
// The package includes:
//   - AuthorizationGuard: the single enforcement point for permission, minimum
//     role and superadmin checks
//   - DispatchCoordinator: composes the guard with the order lifecycle into one
//     decision for a requested status change
//
// Both services are pure: they hold immutable configuration built at startup,
// perform no I/O and are safe for concurrent use without locks. Expected
// outcomes (denied, no-op, illegal) are returned as values.
package services
