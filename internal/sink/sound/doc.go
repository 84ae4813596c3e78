// Package sound renders the terminal alarm tone and plays it through an
// external audio player.
package sound
