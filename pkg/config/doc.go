// Package config provides configuration management for the portal.
//
// Configuration is read from $MARNIX_CONFIG_PATH/marnix13.yml (default
// /etc/marnix13/config) and overridden by MARNIX_* environment variables.
// Every attribute remembers whether it came from its default, the file, or
// the environment, which `marnixctl configuration show` prints.
//
// # Secrets
//
// Secrets never live in the file:
//
//   - DATABASE_URL: PostgreSQL connection string
//   - MARNIX_JWT_SECRET (or SUPABASE_JWT_SECRET): session token secret
//   - MARNIX_SMTP_PASSWORD: SMTP password when mail_transport is smtp
//   - AUDIT_DATABASE_URL: optional audit message database
//
// # Service links
//
// jellyfin_url, nextcloud_url, radarr_url, sonarr_url and manga_reader_url
// also fall back to the NEXT_PUBLIC_* variables used by the web frontend.
package config
