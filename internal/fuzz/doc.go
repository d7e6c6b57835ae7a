// Package fuzztests houses Go fuzz harnesses for the signature pipeline
// (text -> tokenizer -> parser). They guard against panics and check the
// span invariants of the token tree on arbitrary inputs.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
