// Package token defines the token tree produced by the delimiter tokenizer.
// Invariants:
//   - Token is an immutable value; a Group owns its Children slice.
//   - Token.Span is inclusive and absolute: offsets point into the original
//     top-level input even for tokens produced from a sub-slice.
//   - Literal kinds (Text, QuotedText, CommentText) carry their exact source
//     text; SourceText of a literal is its Text.
//   - Children of a Group tile the group interior: concatenating their
//     SourceText gives Group.Inner().
//   - A Group with Unclosed set was closed implicitly at end of input; its
//     closing delimiter is synthesized by SourceText.
//   - DelimNone is used only for the synthetic outermost wrapper.
package token
