// Package speech synthesizes spoken audio for card text and caches the
// resulting clips by content hash.
//
// PollySynthesizer talks to Amazon Polly. Cache sits in front of any
// Synthesizer and names clips tts_<md5>.ogg so identical text is only ever
// synthesized once, across cards, decks, and runs sharing a cache directory.
package speech
