// Package reader implements the reading playback engine: it segments text
// into words, advances a cursor through them at a pace derived from a
// words-per-minute setting or from external narration timing, and notifies
// subscribers of every visible change.
package reader
