// Package ui provides the Bubble Tea terminal interface for rolo.
//
// # Surfaces
//
// The current location path picks the surface:
//
//   - /contacts: Grid of contact cards, nine per page, with search, sort and paging
//   - /contacts/{id}: Every field of one contact, fetched on entry
//   - /favorites: Favorite contacts in collection order
//   - /: Form that creates a contact
//   - /activity: Tail of rolo's own log file
//
// Edit and delete run in modal dialogs over the grid, favorites or detail view.
//
// # Event Flow
//
//  1. Run builds the Model from a store, a syncer and the prefs keeper
//  2. Remote operations run as tea.Cmds that call state.Actions and report opDoneMsg
//  3. Every opDoneMsg and tick re-reads the store and re-derives the visible page
//  4. List parameter keys go through query.Syncer so the store and location change together
//  5. A derived page that no longer exists is reset to page 1 through the same syncer
//
// # Key Bindings
//
//   - /: Search (live, enter keeps the term, esc clears it)
//   - s/o: Cycle sort field / toggle sort order
//   - [ ]: Previous/next page
//   - c: Clear search, sort and page
//   - enter: Open contact
//   - f: Toggle favorite
//   - e/d: Edit/delete contact
//   - n: New contact
//   - F: Favorites
//   - a: Activity log
//   - y: Copy the location to the clipboard
//   - x: Dismiss the error banner
//   - T: Cycle theme
//   - esc: Back to the list
//   - q or Ctrl+C: Quit
package ui
