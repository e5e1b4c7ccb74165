// Package takes persists the take registry backed by SQLite.
//
// Each row tracks one source video through the transcription lifecycle
// (pending, transcribing, transcribed, failed) along with its transcript
// text and probed duration, so repeated runs skip work that already
// completed and interrupted runs recover cleanly.
package takes
