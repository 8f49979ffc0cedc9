package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/format"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
)

// FileList — список выбранных файлов с размерами.
// Пустой список не рендерит ничего.
func FileList(files []model.SelectedFile) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		if len(files) == 0 {
			return
		}
		hw.raw("<p class=\"hint\">")
		hw.text(i18n.Tf(ctx, "form.files.selected", len(files)))
		hw.raw("</p><ul class=\"file-list\">")
		for _, f := range files {
			hw.raw("<li><span class=\"file-name\">")
			hw.text(f.Name)
			hw.raw("</span><span class=\"file-size\">")
			hw.text(format.FormatFileSize(f.Size))
			hw.raw("</span></li>")
		}
		hw.raw("</ul>")
	})
}

// SubmitButton — кнопка отправки; во время загрузки заблокирована.
// Подписи обоих состояний лежат в data-атрибутах для переключения из JS.
func SubmitButton(uploading bool) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		idle := i18n.T(ctx, "form.submit")
		busy := i18n.T(ctx, "form.uploading")

		hw.raw("<button id=\"submit-button\" type=\"submit\" class=\"btn btn-primary\"")
		hw.attr("data-label-idle", idle)
		hw.attr("data-label-uploading", busy)
		hw.boolAttr("disabled", uploading)
		hw.raw(">")
		if uploading {
			hw.text(busy)
		} else {
			hw.text(idle)
		}
		hw.raw("</button>")
	})
}

// Sidebar — баннеры и правила подачи отчёта.
func Sidebar() templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw("<aside class=\"sidebar\">")
		for _, prefix := range []string{"sidebar.team", "sidebar.collab"} {
			hw.raw("<div class=\"card\"><div class=\"banner\"><h3>")
			hw.text(i18n.T(ctx, prefix+".title"))
			hw.raw("</h3><p>")
			hw.text(i18n.T(ctx, prefix+".text"))
			hw.raw("</p></div></div>")
		}

		hw.raw("<div class=\"card\"><div class=\"card-header\"><h3>")
		hw.text(i18n.T(ctx, "guidelines.title"))
		hw.raw("</h3></div><div class=\"card-body\"><ul class=\"guidelines\">")
		items := []string{
			i18n.T(ctx, "guidelines.required"),
			i18n.T(ctx, "guidelines.accurate"),
			i18n.T(ctx, "guidelines.documents"),
			i18n.Tf(ctx, "guidelines.max_size", model.MaxFileSizeHint),
			i18n.T(ctx, "guidelines.confirmation"),
		}
		for _, item := range items {
			hw.raw("<li>")
			hw.text(item)
			hw.raw("</li>")
		}
		hw.raw("</ul></div></div></aside>")
	})
}
