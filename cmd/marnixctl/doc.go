// Command marnixctl runs the Marnix 13 portal server and its admin tasks.
//
// Marnix 13 is a self-hosted services portal. New sign-ups wait in a
// pending state until an administrator approves or rejects them; approved
// users get links to the household's media and storage services.
//
// # Quick Start
//
//	# Apply the database schema
//	marnixctl db migrate
//
//	# Promote the first administrator
//	marnixctl account promote owner@example.com
//
//	# Register the default services and start the server
//	marnixctl services seed
//	marnixctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - MARNIX_JWT_SECRET: secret used to verify session tokens
//   - MARNIX_SMTP_PASSWORD: SMTP password when mail_transport is smtp
//   - MARNIX_CONFIG_PATH: directory holding marnix13.yml
//   - PORT: server port (default: 8000)
//
// Every attribute of marnix13.yml can also be set as MARNIX_<NAME>; run
// "marnixctl configuration show" to see the effective values.
package main
