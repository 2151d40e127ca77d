// Package app wires rolo together and runs it.
//
// Run loads the config file, opens the log, restores prefs and favorites,
// builds the contacts client and the list-state store, and hydrates the list
// parameters from the starting location before handing everything to the
// ui package. The starting location is the -view flag, else the last location
// saved in prefs, else /contacts.
//
// When a refresh interval is configured, StartRefresher reloads the list in
// the background. Failed reloads back off up to 30 seconds and never clear
// the contacts already on screen.
package app
