// ABOUTME: Package doc for the browser-facing web app
// ABOUTME: Covers routes, sessions, and the token endpoint

// Package web serves the account-facing HTML pages and the OAuth token
// endpoint.
//
// # Routes
//
//   - GET  /          landing page
//   - GET  /signup    signup form, POST creates the account
//   - GET  /login     login form, POST authenticates
//   - GET  /dashboard account details and connect instructions
//   - POST /logout    clears the session cookie
//   - POST /token     OAuth client_credentials grant
//   - GET  /message   legacy redirect to /sse/message
//
// Sessions are a cookie holding the account's API key; the dashboard
// verifies it with the same lookup the protocol endpoint uses, so there
// is no separate session table to expire or revoke.
//
// Pages are html/template files embedded in the binary, sharing a base
// layout. The dashboard's connect guide is markdown converted at render
// time with goldmark.
package web
