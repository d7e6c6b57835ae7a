package lexer

import (
	"sigtype/internal/source"
)

// Cursor представляет собой позицию во входной строке.
// Base добавляется ко всем выдаваемым смещениям, чтобы Span указывал
// в исходный текст верхнего уровня.
type Cursor struct {
	Src  string
	Off  int
	Base int
}

// NewCursor creates a cursor positioned at start.
func NewCursor(src string, start, base int) Cursor {
	return Cursor{Src: src, Off: start, Base: base}
}

// EOF проверяет, достигнут ли конец входа
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.Src)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark int

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента от метки до текущей позиции (не включая её).
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		Start: c.Base + int(m),
		End:   c.Base + c.Off - 1,
	}
}

// TextFrom returns the raw bytes consumed since m.
func (c *Cursor) TextFrom(m Mark) string {
	return c.Src[int(m):c.Off]
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = int(m)
}
