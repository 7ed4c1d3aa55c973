// Package order provides the order aggregate and the lifecycle state machine
// that governs its status.
//
// The package includes:
//   - Status: the closed set of lifecycle states with their wire names
//   - Lifecycle: the immutable transition table, each edge tagged with the
//     permission an actor must hold to request it
//   - Order: the aggregate root that applies already-authorized transitions and
//     keeps its assignment data consistent with its status
//
// Key business rules:
//   - pending is the initial status; delivered, cancelled and failed are terminal
//   - a transition from a status to itself is never legal
//   - no edge leaves a terminal status
//   - assigned orders carry a driver and a vehicle; returning to pending clears them
//   - failed orders carry a reason
//
// Whether a given actor may request a transition is decided by the dispatch
// coordinator in the services package; Order only enforces data rules.
package order
