// Package shef decodes and composes the Standard Hydrometeorologic Exchange
// Format (SHEF), NWS version 2.2 (2012).
//
// A decode run wires three stages together: a Tokenizer segments a byte
// stream into MessageRecords, a Decoder walks each record's grammar while
// consulting a ParamRegistry and the time model to produce ShefValues, and
// an Emitter renders ShefValues to one of the two fixed-column text
// formats or composes them back into SHEF .A/.E text.
package shef
