// Package database handles the metadata database connection.
//
// It provides a wrapper around GORM to configure MySQL connections based on
// the application's configuration, with connection pooling and setup/I-O
// timeouts baked into the DSN.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
