// Package cli provides the interactive BuildHub operator console.
//
// It wires configuration, local storage, the admin API client, the resource
// store and the session into a REPL. Every page of the web console is a
// command: commands navigate through the route guards first, then dispatch
// operations on the store and print the resulting notice, the way the web
// console shows a toast.
//
// Key features:
//   - login / logout / forgot / reset / profile / passwd
//   - lifecycle commands (list, trash, show, add, edit, delete, restore,
//     purge, toggle) for categories, sub-categories, materials, vendors and users
//   - vendor offers, bookings and transactions
//   - a location picker backed by Nominatim for vendor addresses
//   - a dashboard computed from the loaded collections
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
