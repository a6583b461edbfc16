// Package services holds the self-hosted services registry logic: the
// catalog of known service types and their presets, request and response
// shapes for the admin API, the dashboard links, and health checking.
package services
