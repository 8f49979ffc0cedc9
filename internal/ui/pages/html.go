// Пакет pages — HTML-компоненты формы отчёта (templ.Component).
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter пишет HTML, запоминая первую ошибку записи.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw пишет разметку без экранирования.
func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// text пишет экранированный текст (или значение атрибута).
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr пишет атрибут name="value".
func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + "=\"")
	hw.text(value)
	hw.raw("\"")
}

// boolAttr пишет атрибут без значения, если on.
func (hw *htmlWriter) boolAttr(name string, on bool) {
	if on {
		hw.raw(" " + name)
	}
}

// component рендерит вложенный компонент.
func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// component оборачивает функцию рендеринга в templ.Component.
func component(render func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		render(ctx, hw)
		return hw.err
	})
}
