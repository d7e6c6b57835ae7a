package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo              Code = 1000
	LexUnterminatedQuote Code = 1001
	LexUnclosedGroup     Code = 1002
	LexStrayCloser       Code = 1003

	// Синтаксические
	SynInfo                 Code = 2000
	SynNotASignature        Code = 2001
	SynUnclassifiedArgument Code = 2002
	SynEmptyReturnType      Code = 2003

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexInfo:                 "Lexical information",
	LexUnterminatedQuote:    "Unterminated quoted literal",
	LexUnclosedGroup:        "Group closed at end of input",
	LexStrayCloser:          "Unbalanced closing delimiter",
	SynInfo:                 "Syntax information",
	SynNotASignature:        "Input is not a method signature",
	SynUnclassifiedArgument: "Argument shape not recognized",
	SynEmptyReturnType:      "Return marker without a type",
	IOInfo:                  "I/O information",
	IOLoadFileError:         "Failed to load file",
	IOCacheError:            "Cache access failed",
}

// ID returns the stable short identifier, e.g. SYN2002.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	default:
		return fmt.Sprintf("E%04d", ic)
	}
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
