// Package database handles database connections for the render history store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures either an embedded SQLite file (the default) or a MySQL
// connection based on the application's configuration. The history store
// is optional; when it is disabled no connection is opened at all.
//
// # Connect
//
// The Connect function establishes a connection to the configured backend.
// It is agnostic to the models that feature packages migrate onto it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
