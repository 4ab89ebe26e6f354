// Package server assembles the backpack gateway: it opens the store,
// builds the auth service, mounts the web app and the protocol endpoint
// on one mux, and runs the HTTP listener (plain TCP or Tailscale tsnet)
// with graceful shutdown and a periodic expired-token sweep.
package server
