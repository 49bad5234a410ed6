// Package cli implements the interactive qbank terminal client: a REPL over
// the course catalogue, question listings, the upload flows, and the admin
// moderation panel, gated on the shared session state.
package cli
