// Package apkg writes Anki deck packages.
//
// A package is a zip archive holding collection.anki2 (a SQLite database in
// the legacy schema version 11), a "media" JSON index that maps archive
// member names to file names, and the media files themselves stored under
// numeric member names. The collection is built in a scratch directory with
// modernc.org/sqlite and then streamed into the archive.
//
// Only what a one-deck export needs is modelled: a single note type with
// front/back templates, one deck, its notes, and the cards those notes
// generate.
package apkg
