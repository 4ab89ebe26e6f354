// Package auth implements backpack's credential layer: password hashing,
// random token generation, account creation and verification, session cookie
// handling, and the HTTP middleware that authenticates protocol requests.
package auth
