// Package notify sends account notification emails.
//
// Notifier renders the approval and rejection messages from embedded
// templates. The plain text part comes from a text template and the HTML
// alternative is Markdown rendered with goldmark. Delivery goes through a
// Mailer: LogMailer only logs the message, SMTPMailer delivers it.
//
// Callers treat notification failures as non-fatal.
package notify
