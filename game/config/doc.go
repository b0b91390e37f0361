// Package config provides runtime configuration for the Song Party server.
//
// Settings are loaded from SONGPARTY_* environment variables with sensible
// defaults for local development; main loads a .env file first so a local
// override file works without exporting anything.
//
// Tunables cover the listen address, the idle-room sweep (TTL and
// interval), WebSocket write/pong deadlines, and debug logging.
//
// Usage:
//
//	settings, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Printf("listening on %s", settings.Addr())
package config
