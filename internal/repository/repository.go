// Package repository handles all interactions with the todo store.
//
// Repository operations receive a store.Session from the caller and run
// their query, flush and commit inside it. Which engine sits behind the
// session (gorm, pgx or memory) is decided once, in NewRepositories.
package repository
