// Package repository implements data access for the user table: the id-based
// CRUD operations and the filtered, paginated listing.
//
// Repositories hold a database.Acquirer rather than a *bun.DB and acquire the
// handle on every call, so an operation issued before Connect or after
// Disconnect fails with database.ErrPoolNotInitialized.
//
// Filtered listings are assembled by FilterBuilder as SQL text with "?"
// placeholders plus an argument list; values are only ever bound by bun at
// execution time.
package repository
