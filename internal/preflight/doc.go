// Package preflight provides readiness checks for the external tools,
// credentials, and filesystem paths a deck build depends on.
//
// These checks run in two contexts:
//   - The build command calls RunAll before loading a deck and refuses to
//     start when a required check fails, so a run never dies halfway through
//     transcoding.
//   - The CLI "fanki status" command renders every result, including the
//     informational ones, as a table.
//
// Speech checks are skipped when synthesis is disabled.
package preflight
