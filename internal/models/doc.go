// Package models defines the wire and domain types shared by the TripTangle client.
//
// # Wire compatibility
//
// Every struct that crosses the network carries explicit snake_case JSON tags. The
// backend is a FastAPI service and validates field names strictly, so tags must not be
// renamed even when the Go field name changes.
//
// # Optional fields
//
// Optional backend fields are pointers (or omitempty slices) so that "absent" and
// "zero" stay distinguishable after a decode. For example a MaxBudget of nil means the
// traveler left the budget blank, while 0 means they typed 0.
//
// # Identity
//
// Users and groups are keyed by backend-issued integer IDs. Destinations have no ID of
// their own; the city name is used as the identity key for lists.
package models
