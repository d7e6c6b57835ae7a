package driver

import (
	"fmt"
	"regexp"
	"sync"

	"fortio.org/safecast"

	"sigtype/internal/lexer"
	"sigtype/internal/source"
	"sigtype/internal/token"
)

// maxContinuationLines limits how far an open parameter list may spill
// onto following lines.
const maxContinuationLines = 32

// candidate: байтовый диапазон [start, end) одной потенциальной сигнатуры.
type candidate struct {
	start, end int
}

var declLines sync.Map // keyword -> *regexp.Regexp

func declLine(keyword string) *regexp.Regexp {
	if re, ok := declLines.Load(keyword); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := declLines.LoadOrStore(keyword, regexp.MustCompile(`^\s*`+regexp.QuoteMeta(keyword)+`\s`))
	return re.(*regexp.Regexp)
}

// findCandidates returns every line starting with the declaration keyword,
// extended over following lines while its parameter list stays open.
func findCandidates(file *source.File, keyword string, lopts lexer.Options) []candidate {
	decl := declLine(keyword)
	text := file.Text()
	// без репортера: сюда попадают только пробные разборы
	lopts.Reporter = nil

	lines := lineNumber(file.LineCount())
	var out []candidate
	for n := uint32(1); n <= lines; n++ {
		sp, _ := file.LineSpan(n)
		if !decl.MatchString(sp.Slice(text)) {
			continue
		}
		end, extra := extent(file, text, n, lopts)
		out = append(out, candidate{start: sp.Start, end: end})
		n += extra
	}
	return out
}

// extent grows the candidate at line first while the tokenizer reports an
// unclosed top-level group. It returns the exclusive end offset and the
// number of extra lines consumed.
func extent(file *source.File, text string, first uint32, lopts lexer.Options) (end int, extra uint32) {
	sp, _ := file.LineSpan(first)
	end = sp.End + 1
	for ; extra < maxContinuationLines; extra++ {
		root, err := lexer.Tokenize(text[sp.Start:end], lopts)
		if err != nil || !openGroup(root) {
			break
		}
		next, ok := file.LineSpan(first + extra + 1)
		if !ok {
			break
		}
		end = next.End + 1
	}
	return end, extra
}

// openGroup: последний ребёнок верхнего уровня: незакрытая группа,
// оборванная не комментарием.
func openGroup(root token.Token) bool {
	if len(root.Children) == 0 {
		return false
	}
	last := root.Children[len(root.Children)-1]
	for last.IsGroup() && last.Unclosed {
		if len(last.Children) == 0 {
			return true
		}
		inner := last.Children[len(last.Children)-1]
		if inner.IsComment() {
			return false
		}
		if !inner.IsGroup() || !inner.Unclosed {
			return true
		}
		last = inner
	}
	return false
}

func lineNumber(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return v
}
