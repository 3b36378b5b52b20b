// Package queue keeps each cabinet's waiting line in the queue_entries table.
//
// Positions of one cabinet always form the range 1..k. Store issues the
// individual statements; Engine wraps every mutating operation (Join, Leave,
// Advance, Postpone) in a single transaction that first locks the cabinet's
// row in the queues table, so concurrent writers of one cabinet take turns
// while different cabinets never wait on each other. Unique indexes on
// (cabinet_id, name) and (cabinet_id, position) turn any race that slips
// through into ErrConflict, which the Engine retries.
package queue
