// Package navigation holds the dashboard sidebar layout and the rules
// that hide admin routes from regular users.
package navigation
