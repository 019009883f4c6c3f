// Package relharness runs YAML-defined end-to-end scenarios: load a
// CUE catalog, seed a demo SQLite table from a CSV fixture, compile a
// QueryRep against the catalog, execute the compiled SQL against the
// seeded table via internal/reldriver, and assert on the resulting
// schema and rows. Scenario definitions use strict-field YAML
// decoding, and results are compared against each scenario's expect
// block by CheckExpect. RunWithGolden offers sebdah/goldie snapshots of
// the compiled SQL and result rows; the package's own tests do not use
// it.
package relharness
