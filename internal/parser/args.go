package parser

import (
	"fmt"
	"strings"

	"sigtype/internal/diag"
	"sigtype/internal/source"
	"sigtype/internal/token"
	"sigtype/internal/trace"
)

// argGroup: токены одного аргумента между запятыми.
// raw хранит все куски (для точных спанов), kept: индексы непустых
// и не-комментариев.
type argGroup struct {
	raw  []token.Token
	kept []int
}

func (g argGroup) len() int { return len(g.kept) }

func (g argGroup) tok(i int) token.Token { return g.raw[g.kept[i]] }

// span covers every raw piece; an all-empty group gets the empty span of its first piece.
func (g argGroup) span() source.Span {
	if len(g.raw) == 0 {
		return source.Span{}
	}
	sp := g.raw[0].Span
	for _, t := range g.raw[1:] {
		sp = sp.Cover(t.Span)
	}
	return sp
}

// source reconstructs raw pieces from kept index i through j inclusive.
func (g argGroup) source(i, j int) string {
	var sb strings.Builder
	for k := g.kept[i]; k <= g.kept[j]; k++ {
		sb.WriteString(g.raw[k].SourceText())
	}
	return sb.String()
}

// ParseArguments classifies every comma separated group of the parameter
// list. Unrecognised groups produce a nil slot so positions stay aligned
// with the source. A blank list yields an empty slice.
func ParseArguments(params token.Token, opts Options) []*Argument {
	ap := argParser{g: opts.grammar(), opts: opts, tracer: opts.tracer()}
	groups := splitByComma(params.Children)
	if len(groups) == 1 && groups[0].len() == 0 {
		return []*Argument{}
	}
	args := make([]*Argument, 0, len(groups))
	for _, grp := range groups {
		args = append(args, ap.classify(grp))
	}
	return args
}

// splitByComma режет Text-токены текущего уровня по запятым.
// Запятые внутри вложенных групп не учитываются.
func splitByComma(children []token.Token) []argGroup {
	groups := []argGroup{{}}
	add := func(t token.Token) {
		last := &groups[len(groups)-1]
		last.raw = append(last.raw, t)
		if !t.IsBlank() && !t.IsComment() {
			last.kept = append(last.kept, len(last.raw)-1)
		}
	}
	for _, ch := range children {
		if !ch.IsText() || !strings.Contains(ch.Text, ",") {
			add(ch)
			continue
		}
		off := ch.Span.Start
		for i, part := range strings.Split(ch.Text, ",") {
			if i > 0 {
				groups = append(groups, argGroup{})
				off++ // сама запятая
			}
			sp := source.EmptyAt(off)
			if part != "" {
				sp = source.FromLen(off, len(part))
			}
			add(token.NewText(part, sp))
			off += len(part)
		}
	}
	return groups
}

type argParser struct {
	g      *grammar
	opts   Options
	tracer trace.Tracer
}

// classify пробует формы по приоритету; первая подошедшая побеждает.
func (ap *argParser) classify(grp argGroup) *Argument {
	n := grp.len()
	if n == 0 {
		ap.unclassified(grp, "empty argument")
		return nil
	}
	first := grp.tok(0)

	// a. name | name = default | name: default
	if n == 1 && first.IsText() {
		if id, ok := ap.g.matchIdent(first.Text); ok {
			return ap.build("identifier", first, id, "", nil)
		}
	}

	// b. Type name, где Type: группа или голый тип
	if n == 2 {
		if arg := ap.groupThenName(first, grp.tok(1)); arg != nil {
			return arg
		}
	}

	// c. ?(A | B) name
	if n >= 3 {
		if arg := ap.nilableGroup(grp); arg != nil {
			return arg
		}
	}

	// d. "Type name" одним текстом
	if first.IsText() {
		if tp, ok := ap.g.matchPair(first.Text); ok && (n == 1 || tp.hasValue()) {
			sp := source.FromLen(first.Span.Start+tp.typeStart, len(tp.typ))
			return ap.build("typed", first, tp.ident, tp.typ, &sp)
		}
	}

	// e1. цепочка type-токенов, затем имя
	if arg := ap.typeRunThenName(grp); arg != nil {
		return arg
	}

	// e2. name = <что угодно>, name: <что угодно>
	if first.IsText() {
		concat := grp.source(0, n-1)
		if id, ok := ap.g.matchIdent(concat); ok && id.hasValue() && id.end <= len(first.Text) {
			return ap.build("identifier+default", first, id, "", nil)
		}
	}

	ap.unclassified(grp, fmt.Sprintf("cannot classify argument %q", strings.TrimSpace(grp.source(0, n-1))))
	return nil
}

func (ap *argParser) groupThenName(first, second token.Token) *Argument {
	if !second.IsText() {
		return nil
	}
	id, ok := ap.g.matchIdent(second.Text)
	if !ok {
		return nil
	}
	switch {
	case first.IsGroup():
		sp := first.Span
		return ap.build("group type", second, id, first.SourceText(), &sp)
	case first.IsText() && ap.g.isTypeText(first.Text):
		start, end, _ := trimmedBounds(first.Text)
		sp := source.FromLen(first.Span.Start+start, end-start)
		return ap.build("bare type", second, id, first.Text[start:end], &sp)
	}
	return nil
}

func (ap *argParser) nilableGroup(grp argGroup) *Argument {
	q, group, name := grp.tok(0), grp.tok(1), grp.tok(2)
	if !q.IsText() || strings.TrimSpace(q.Text) != "?" || !group.IsGroup() || !name.IsText() {
		return nil
	}
	id, ok := ap.g.matchIdent(name.Text)
	if !ok || (grp.len() > 3 && !id.hasValue()) {
		return nil
	}
	qAt := q.Span.Start + strings.IndexByte(q.Text, '?')
	sp := source.Span{Start: qAt, End: group.Span.End}
	return ap.build("nilable group type", name, id, "?"+group.SourceText(), &sp)
}

func (ap *argParser) typeRunThenName(grp argGroup) *Argument {
	n := grp.len()
	for k := 1; k < n; k++ {
		prev := grp.tok(k - 1)
		if !prev.IsGroup() && !(prev.IsText() && ap.g.isTypeFragment(prev.Text)) {
			return nil
		}
		cand := grp.tok(k)
		if !cand.IsText() {
			continue
		}
		id, ok := ap.g.matchIdent(cand.Text)
		if !ok || (k < n-1 && !id.hasValue()) {
			continue
		}
		text := grp.source(0, k-1)
		start, end, ok := trimmedBounds(text)
		if !ok {
			return nil
		}
		base := grp.tok(0).Span.Start
		sp := source.Span{Start: base + start, End: min(base+end-1, prev.Span.End)}
		return ap.build("type run", cand, id, text[start:end], &sp)
	}
	return nil
}

// build собирает Argument; nameTok: токен, в котором найдено имя.
func (ap *argParser) build(shape string, nameTok token.Token, id ident, typ string, typeSpan *source.Span) *Argument {
	at := nameTok.Span.Start
	arg := &Argument{
		Name:         id.raw,
		Type:         typ,
		HasType:      typ != "",
		Optional:     id.hasValue() || strings.HasPrefix(typ, "?"),
		FieldBinding: id.marked(),
		NameSpan:     source.FromLen(at+id.nameStart, len(id.name)),
		TypeSpan:     typeSpan,
	}
	if id.suffix == ':' {
		arg.Kind = Keyword
	}
	start := at + id.rawStart
	if typeSpan != nil {
		start = typeSpan.Start
	}
	arg.Span = source.Span{Start: start, End: arg.NameSpan.End}
	if arg.Optional {
		arg = arg.WithOptionalType()
	}
	trace.Point(ap.tracer, trace.ScopeArgument, "argument", fmt.Sprintf("%s: %s %s", shape, arg.Type, arg.Name), ap.opts.TraceParent)
	return arg
}

func (ap *argParser) unclassified(grp argGroup, msg string) {
	diag.ReportWarning(ap.opts.Reporter, diag.SynUnclassifiedArgument, grp.span(), msg).Emit()
	trace.Point(ap.tracer, trace.ScopeArgument, "argument", "unclassified: "+msg, ap.opts.TraceParent)
}
