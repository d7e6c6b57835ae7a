package testkit

import (
	"fmt"

	"sigtype/internal/token"
)

// CheckTokenInvariants runs the span invariants on a token tree produced from
// text (whose first byte sits at offset base):
// 1) every literal's Text equals the source bytes under its Span
// 2) children tile the group interior without gaps or overlaps
// 3) a group with no implicitly closed descendants reconstructs its source exactly
func CheckTokenInvariants(root token.Token, text string, base int) error {
	_, err := checkToken(root, text, base)
	return err
}

// checkToken возвращает true, если в поддереве есть Unclosed группа.
func checkToken(t token.Token, text string, base int) (bool, error) {
	if t.Kind != token.Group {
		if t.Span.Empty() {
			return false, fmt.Errorf("%s token has empty span %v", t.Kind, t.Span)
		}
		if got := t.Span.Shift(-base).Slice(text); got != t.Text {
			return false, fmt.Errorf("%s token text %q does not match source %q at %v", t.Kind, t.Text, got, t.Span)
		}
		return false, nil
	}

	innerStart, innerEnd := t.Span.Start, t.Span.End
	if t.Delim != token.DelimNone {
		if got := t.Span.Shift(-base).Slice(text); got == "" || got[0] != t.Delim.Open() {
			return false, fmt.Errorf("group %v does not start with %q", t.Span, t.Delim.Open())
		}
		innerStart++
		if !t.Unclosed {
			innerEnd--
		}
	} else if t.Closer != 0 {
		innerEnd--
	}

	pos := innerStart
	repaired := t.Unclosed
	for i, ch := range t.Children {
		if ch.Span.Start != pos {
			return false, fmt.Errorf("child %d of group %v starts at %d, want %d", i, t.Span, ch.Span.Start, pos)
		}
		sub, err := checkToken(ch, text, base)
		if err != nil {
			return false, err
		}
		repaired = repaired || sub
		pos = ch.Span.End + 1
	}
	if pos != innerEnd+1 {
		return false, fmt.Errorf("children of group %v end at %d, want %d", t.Span, pos-1, innerEnd)
	}

	if !repaired {
		if want := t.Span.Shift(-base).Slice(text); t.SourceText() != want {
			return false, fmt.Errorf("group %v reconstructs %q, source is %q", t.Span, t.SourceText(), want)
		}
	}
	return repaired, nil
}
