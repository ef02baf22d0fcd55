// Package config handles loading and parsing the almacen configuration file.
//
// # Overview
//
// This package reads almacen's TOML configuration to discover the inventory
// server, the identity provider, and the on-disk session slot. All fields are
// optional; missing files and missing fields fall back to defaults so the
// client can start against a local development server with no setup.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/almacen/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Configuration Fields
//
//   - server_url: base URL of the inventory REST service
//     (default http://127.0.0.1:8000)
//   - auth_url: base URL of the identity provider; login is disabled when
//     unset and only a previously stored session can be restored
//   - auth_anon_key: public API key sent to the identity provider
//   - session_path: durable token slot location
//     (default ~/.config/almacen/session.json)
//
// # Path Expansion
//
// Paths beginning with ~ are expanded to the user's home directory and made
// absolute. Expansion failures fall back to the literal path rather than
// aborting startup.
package config
