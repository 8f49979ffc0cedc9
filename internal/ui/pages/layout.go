package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
)

// Layout — общий каркас страницы: head, шапка с переключателем языка, toaster.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		lang := i18n.LangFromContext(ctx)

		hw.raw("<!DOCTYPE html>\n<html")
		hw.attr("lang", lang)
		hw.raw("><head><meta charset=\"utf-8\">")
		hw.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		hw.raw("<title>")
		hw.text(title + " · " + i18n.T(ctx, "app.name"))
		hw.raw("</title>")
		hw.raw("<link rel=\"stylesheet\" href=\"/static/css/app.css\">")
		hw.raw("</head><body>")

		header(ctx, hw, lang)

		hw.raw("<main class=\"container\">")
		hw.component(ctx, body)
		hw.raw("</main>")

		hw.raw("<div id=\"toaster\" class=\"toaster\" aria-live=\"polite\"></div>")
		hw.raw("<script src=\"/static/js/app.js\" defer></script>")
		hw.raw("</body></html>")
	})
}

// header — шапка с брендом, навигацией (без действий) и выбором языка.
func header(ctx context.Context, hw *htmlWriter, lang string) {
	hw.raw("<header class=\"header\"><div class=\"header-inner\">")
	hw.raw("<span class=\"brand\">")
	hw.text(i18n.T(ctx, "app.name"))
	hw.raw("</span><nav class=\"nav\">")
	// Состояние ingest-сервера обновляется SSE-событием ingest-status
	hw.raw("<span id=\"ingest-status\" class=\"ingest-status\" data-status=\"unavailable\"")
	hw.attr("title", i18n.T(ctx, "ingest.status"))
	hw.raw("></span>")
	for _, key := range []string{"nav.dashboard", "nav.history"} {
		hw.raw("<button type=\"button\" class=\"btn btn-ghost\">")
		hw.text(i18n.T(ctx, key))
		hw.raw("</button>")
	}
	hw.raw("<button type=\"button\" class=\"btn btn-outline\">")
	hw.text(i18n.T(ctx, "nav.help"))
	hw.raw("</button>")

	hw.raw("<form method=\"post\" action=\"/set-language\" class=\"lang-switch\"")
	hw.attr("aria-label", i18n.T(ctx, "lang.switch"))
	hw.raw(">")
	for _, l := range i18n.Langs {
		hw.raw("<button type=\"submit\" name=\"lang\" class=\"btn btn-ghost\"")
		hw.attr("value", l)
		if l == lang {
			hw.attr("aria-pressed", "true")
		}
		hw.raw(">")
		hw.text(i18n.T(ctx, "lang."+l))
		hw.raw("</button>")
	}
	hw.raw("</form></nav></div></header>")
}
