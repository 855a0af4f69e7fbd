// Package store defines the persistence interfaces the engine depends
// on. The engine consumes these contracts only; concrete database
// implementations live in internal/platform/postgres.
package store
