// Package store provides SQLite-backed persistence for backpack accounts and
// OAuth access tokens.
package store
