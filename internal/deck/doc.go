// Package deck turns a deck definition on disk into an Anki package.
//
// The flow for one build is:
//
//	LoadDefinition  reads <root>/<namespace>/<alias>/data.json
//	Variant         keeps the card keys its note type knows about
//	Parser          resolves every field to text or embedded media
//	Assemble        projects cards onto the note type and writes the .apkg
//
// Field resolution happens in three passes per card. Ordinary fields go
// first: values naming an existing file under assets/ are converted into the
// deck workspace and replaced by embed markup. Speech directive fields (the
// *_tts keys) go second because they depend on the settled text and audio of
// their siblings. Anything still not text is finally rendered as an empty
// string. Resolution never mutates its input; each pass works on a copy.
//
// Generator wires these steps together, holding a per-deck file lock for the
// duration of a build.
package deck
