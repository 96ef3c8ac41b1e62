// Package media classifies card field values that reference deck assets and
// converts those assets into the canonical formats bundled with a package.
//
// Classification is purely name based: a value must start with the assets/
// prefix, carry a recognised extension, and name an existing file under the
// deck directory. Anything else is literal text. Conversion shells out to
// ffmpeg, one invocation per asset, writing into a per-deck workspace whose
// file names depend only on the source basename so reruns are reproducible.
package media
