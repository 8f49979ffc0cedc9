package pages

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
)

func TestMain(m *testing.M) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := i18n.LoadFromEmbedFS(i18n.Init(logger), logger); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("Render вернул ошибку: %v", err)
	}
	return buf.String()
}

func TestSubmitButton(t *testing.T) {
	ctx := context.Background()

	idle := render(t, ctx, SubmitButton(false))
	if !strings.Contains(idle, ">Submit Report</button>") || strings.Contains(idle, " disabled") {
		t.Errorf("кнопка в покое: %s", idle)
	}

	busy := render(t, ctx, SubmitButton(true))
	if !strings.Contains(busy, ">Uploading...</button>") || !strings.Contains(busy, " disabled") {
		t.Errorf("кнопка во время загрузки: %s", busy)
	}
}

func TestFileList(t *testing.T) {
	ctx := context.Background()

	if out := render(t, ctx, FileList(nil)); out != "" {
		t.Errorf("пустой список должен давать пустой вывод: %q", out)
	}

	out := render(t, ctx, FileList([]model.SelectedFile{
		{Name: "report.pdf", Size: 1536},
		{Name: "<script>.md", Size: 0},
	}))
	for _, want := range []string{"report.pdf", "1.5 KB", "0 Bytes", "&lt;script&gt;.md", "Selected files: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("ожидалось %q в выводе: %s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("имя файла должно экранироваться")
	}
}

func TestFormPage(t *testing.T) {
	ctx := i18n.WithLang(context.Background(), "en")
	out := render(t, ctx, FormPage(FormPageData{
		Form: model.FormState{
			ReportDate:  "01/02/2025",
			Region:      "vysocina",
			SubmittedBy: "Jana Nováková",
			Email:       "jana@example.cz",
			Description: "Popis \"v uvozovkách\"",
		},
	}))

	checks := []string{
		`<html lang="en">`,
		`value="01/02/2025"`,
		`value="Jana Nováková"`,
		`value="jana@example.cz"`,
		`<option value="vysocina" selected>Kraj Vysočina</option>`,
		`accept=".pdf,.docx,.md,.mp3"`,
		`multiple`,
		`Minimum 50 characters required`,
		`Maximum file size: 10MB per file`,
		`Save Draft`,
		`Popis &#34;v uvozovkách&#34;`,
		`href="/static/css/app.css"`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("ожидалось %q на странице", want)
		}
	}
	if got := strings.Count(out, "<option value=\""); got != len(model.Regions)+1 {
		t.Errorf("вариантов региона = %d, ожидается %d", got, len(model.Regions)+1)
	}
}

func TestFormPage_Czech(t *testing.T) {
	ctx := i18n.WithLang(context.Background(), "cs")
	out := render(t, ctx, FormPage(FormPageData{}))

	if !strings.Contains(out, `<html lang="cs">`) || !strings.Contains(out, "Odeslat hlášení") {
		t.Error("страница должна быть на чешском")
	}
	if !strings.Contains(out, `value="cs" aria-pressed="true"`) {
		t.Error("текущий язык должен быть отмечен в переключателе")
	}
}
