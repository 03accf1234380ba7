// Package rules contains the validation rules applied to catalog records and space-object
// payloads.
//
// Every rule is a pure function: no I/O, and no dependence on the wall clock except through an
// explicit "now" argument. Rules never panic on their inputs; a value that cannot be parsed gives
// an Outcome of kind KindParseError so that a batch of records can still be evaluated in full.
package rules
