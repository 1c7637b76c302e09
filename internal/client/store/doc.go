// Package store implements the resource engine shared by every collection of
// the console: categories, sub-categories, materials, vendors, vendor
// materials, users, bookings and transactions.
//
// A Collection holds the loaded list, the separately fetched trash list, the
// selected detail record, a coarse status and the last error/message pair.
// Every operation follows the same lifecycle:
//
//   - on dispatch the status becomes loading and the last error is cleared;
//   - on success the status becomes succeeded, the last message is set from the
//     server (or the collection's default) and the list mutation is applied;
//   - on failure the status becomes failed, the last error is set from the
//     server (or the collection's default) and loaded records are kept.
//
// Operations both record their outcome in the state and return it, so callers
// may ignore the error and render the state instead.
//
// List and ListTrashed are sequenced per collection: a response older than the
// last applied one of the same kind is dropped. Mutations are applied in
// arrival order.
package store
