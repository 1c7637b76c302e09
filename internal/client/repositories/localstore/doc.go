// Package localstore is the console's durable key/value storage, the
// equivalent of a browser's localStorage. The session keeps its token and
// principal here under the keys KeyToken and KeyAdmin.
//
// SQLiteRepository persists to a local SQLite file migrated with goose;
// MemoryRepository is a process-local implementation for tests.
package localstore
