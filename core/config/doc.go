// Package config provides configuration management for the drive manager.
//
// It utilizes Viper for loading configuration from environment variables and
// a local .env file, with defaults declared as struct tags on the partial
// config structs.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for the metadata store
//   - Storage: S3/MinIO credentials, bucket and client-pool settings
//   - Cache: listing/search result cache bounds and TTLs
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
