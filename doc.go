package schematree

// Package schematree turns schema documents (JSON Schema and schema-shaped
// fragments produced by GraphQL/OpenAPI front-ends) into a canonical,
// navigable node tree, and projects externally computed diff annotations
// onto the same tree.
//
// Design policy:
// - Keep only the shared error model, diagnostics and core kinds in the root package.
// - Node model under tree/, traversal under walk/, construction under builder/ and difftree/.
// - Decoding under document/, pointers under pointer/, keyword tables under keyword/.
// - Domain adapters (graphql/) and the CLI (cmd/schematree) sit on top.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  doc, err := document.Decode(data)
//  t, diag, err := jsonschema.Build(doc, jsonschema.Options{})
//  node, _ := t.Node("#/properties/id")
//
//  table, err := change.Load(changesDoc)
//  dt, diag, err := jsonschema.BuildDiff(merged, table, jsonschema.Options{})
//
