// Package share implements the cross-dialog share wizard orchestrator.
//
// The wizard lets a user pick existing bottles from their cellar, add new
// bottles through the independent inventory-intake dialog, pick one or more
// recipients, and submit a single atomic share request covering both the
// pre-existing and the newly specified bottles.
//
// The three dialogs are not built to know about each other. Each one only
// reports its own lifecycle through the typed callbacks in its adapter
// interface (BottlePicker, InventoryIntake, RecipientPicker). The
// orchestrator composes them into one finite-state, cancelable process:
//
//	idle ──Start──▶ choose ──selected/closed──▶ inventory ──┐
//	                                                ▲       │ wizard selection
//	                                                └───────┘ (reopen)
//	                                          closed, bottles accumulated
//	                                                        │
//	                                                        ▼
//	                                                      users ──submit──▶ done
//
// Advancing from inventory to users requires at least one existing bottle
// or one pending creation; otherwise the run cancels. A submission failure
// keeps the recipient picker open so the user can retry without redoing
// earlier steps. Every failed run exits through Cancel, which resets all
// session state before notifying, so caller-observable behavior is uniform
// regardless of which state failed.
//
// Signals arriving out of turn, such as a stale close from a dialog that is
// no longer the active step, are ignored rather than acted upon.
//
// All orchestrator methods must be called from a single goroutine; the
// intended host is a UI event loop.
package share
