// Package mongo implements storage.MovieRepository on MongoDB.
//
// Movies are upserted by name into a single collection. Open connects,
// pings the primary and ensures a unique index on the name field so that
// concurrent upserts of the same movie cannot create duplicates.
package mongo
