// Package models holds the records exchanged with the BuildHub admin API.
//
// Every record decodes from the backend's JSON, where identities are carried in
// the "_id" field and references may arrive either as a bare id or as a
// populated object. Each record exposes Key, the identity list and detail
// caches are keyed on.
package models
