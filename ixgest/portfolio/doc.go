// Package portfolio collects portfolio presentations into the site artifact.
//
// A run has one of two modes, chosen once before any I/O:
//
//   - live: every source is fetched, split into front-matter and body,
//     validated and appended to the artifact in source order. A fetch or
//     parse failure skips that source. A schema violation aborts the run
//     without writing the artifact. A run with no valid projects writes an
//     empty artifact and fails.
//   - mock: the fixture artifact is copied to the output unchanged.
//
// Sources are processed one at a time; nothing here is concurrent.
package portfolio
