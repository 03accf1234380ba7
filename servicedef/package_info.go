// Package servicedef contains the wire-level contract of the two services under test: the GP
// data catalog (a JSON array of records) and the space-object creation API.
//
// Types here describe shape only. The rules that decide whether a record or payload is valid
// live in the rules package.
package servicedef
