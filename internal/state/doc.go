// Package state holds the list-state store shared by the background refresher
// and the UI.
//
// # Overview
//
// Store owns exactly one State value: the contact collection in server order,
// the favorite-id set, the view parameters, the loading flag, the last error
// and the selected contact. It is mutated only through named transitions.
// Snapshot returns deep copies so the UI can render without holding the lock.
//
// # Asynchronous operations
//
// Each remote call runs in three phases. Begin is the pending phase and hands
// out a Ticket carrying the operation kind and a per-kind epoch. The matching
// Complete method applies either the fulfilled or the rejected phase.
//
//	ctx, t := store.Begin(ctx, state.OpList)
//	items, err := api.List(ctx)
//	store.CompleteList(t, items, err)
//
// For reads (OpList, OpGet) a newer Begin cancels the older request's context
// and the older completion is discarded, so the collection always reflects the
// last request issued. Mutations are never discarded: each result is the
// server's answer for its own id.
//
// Loading stays true while any request is in flight.
//
// # Favorites
//
// ToggleFavorite and the delete cascade write the new set to the
// favorites.Storage before swapping it into memory. A failed write leaves the
// in-memory set untouched and records the error.
//
// Actions bundles the store with a contacts.API and runs the full
// pending/fulfilled/rejected cycle for each of the five remote operations.
package state
