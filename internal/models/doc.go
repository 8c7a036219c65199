// Package models defines the core domain models for Stagtrip.
//
// # Models
//
//   - Participant: a member of the trip roster, with a trip-wide status,
//     the groom flag, and the admin flag
//   - Event: a scheduled activity with a cost and a split mode
//   - RSVP: a participant's answer for an optional event
//   - CostAllocation: one participant's computed share of one event
//   - Payment: money handed over by a participant toward their balance
//   - Balance: the derived owed/paid/remaining view (never persisted)
//
// # Design Principles
//
//  1. **Money is decimal**: all amounts use shopspring/decimal; float64
//     never touches a money path, so shares keep full precision across
//     repeated recomputations.
//  2. **IDs are UUID strings**: relationships use ID strings instead of
//     pointers to avoid circular references.
//  3. **Statuses are typed strings** with Valid() helpers enforced at the
//     API boundary, not deep in the engine.
//  4. **Balance is derived**: it is recomputed from allocations and
//     confirmed payments on every read and has no table of its own.
package models
