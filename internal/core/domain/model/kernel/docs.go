// Package kernel holds the shared value objects of the dispatch domain.
//
// UUID identifies orders, tenants, users, drivers and vehicles. Its zero value
// is invalid, so a forgotten identifier fails validation instead of matching
// the nil UUID in storage.
package kernel
