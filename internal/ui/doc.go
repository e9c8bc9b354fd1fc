// Package ui implements the interactive terminal browser over fetched
// SoundCloud collections.
//
// The model is a two-view bubbletea program: a playlist list that drills into
// the selected playlist's tracks. Fetches run as tea commands against the API
// client, so the event loop never blocks on the network.
package ui
