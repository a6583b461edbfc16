// Package logging provides the zerolog-based logger shared by the portal.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Ctx(r.Context()).Info().Str("userId", id).Msg("Approving user")
//
// Environment variables read before Init is called:
//
//   - MARNIX_LOG_LEVEL: trace, debug, info, warn, error (default info)
//   - MARNIX_LOG_FORMAT: json or console (default json)
package logging
