// Package parser turns a tokenized method signature into its name,
// classified arguments and return annotation.
//
// Entry points:
//
//   - ParseSignature / ParseSignatureAt: tokenize text, find the declaration,
//     the parameter group and the "=> Type" annotation.
//   - ParseArguments: split a parameter group on top-level commas and
//     classify each piece. Unrecognised pieces leave a nil slot.
//   - ParseReturnType: extract the trailing annotation from top-level tokens.
//
// Every span is an absolute offset into the caller's document, so results
// can drive byte-exact edits. Only NotASignatureError and the tokenizer's
// UnterminatedQuoteError are fatal; everything else is reported as a
// warning through Options.Reporter.
package parser
