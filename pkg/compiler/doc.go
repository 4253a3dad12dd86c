// Package compiler runs the full pipeline over one system document:
// parse, validate the device section, build the entity graph, plan the
// build, check the enclosing system and generate the wiring unit.
//
// A consistency report with errors aborts the compilation; its warnings
// are kept in the Result.
package compiler
