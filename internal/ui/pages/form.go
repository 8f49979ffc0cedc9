package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
)

// FormPageData — данные страницы формы отчёта.
type FormPageData struct {
	Form      model.FormState
	Files     []model.SelectedFile
	Uploading bool
}

// FormPage — страница отправки отчёта: форма и боковая панель.
func FormPage(data FormPageData) templ.Component {
	body := component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw("<section class=\"card\"><div class=\"card-header\"><h1>")
		hw.text(i18n.T(ctx, "page.title"))
		hw.raw("</h1><p>")
		hw.text(i18n.T(ctx, "page.subtitle"))
		hw.raw("</p></div><div class=\"card-body\">")

		hw.raw("<form id=\"report-form\" method=\"post\" action=\"/form/submit\" enctype=\"multipart/form-data\">")
		basicSection(ctx, hw, data.Form)
		detailsSection(ctx, hw, data.Form)
		attachmentsSection(ctx, hw, data.Files)

		hw.raw("<div class=\"actions\">")
		hw.component(ctx, SubmitButton(data.Uploading))
		// Черновики не сохраняются: кнопка без действия
		hw.raw("<button type=\"button\" class=\"btn btn-outline\">")
		hw.text(i18n.T(ctx, "form.save_draft"))
		hw.raw("</button></div>")

		hw.raw("</form></div></section>")

		hw.component(ctx, Sidebar())
	})

	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.component(ctx, Layout(i18n.T(ctx, "page.title"), body))
	})
}

func basicSection(ctx context.Context, hw *htmlWriter, form model.FormState) {
	hw.raw("<div class=\"section\"><h3>")
	hw.text(i18n.T(ctx, "form.section.basic"))
	hw.raw("</h3><div class=\"grid-2\">")

	inputField(ctx, hw, model.FieldReportDate, "text", "form.report_date", form, false)

	// Регион
	hw.raw("<div class=\"field\"><label for=\"region\">")
	hw.text(i18n.T(ctx, "form.region"))
	hw.raw("</label><select id=\"region\" data-field")
	hw.attr("name", model.FieldRegion)
	hw.raw("><option value=\"\" disabled")
	hw.boolAttr("selected", form.Region == "")
	hw.raw(">")
	hw.text(i18n.T(ctx, "form.region.placeholder"))
	hw.raw("</option>")
	for _, r := range model.Regions {
		hw.raw("<option")
		hw.attr("value", r.Value)
		hw.boolAttr("selected", r.Value == form.Region)
		hw.raw(">")
		hw.text(r.Name)
		hw.raw("</option>")
	}
	hw.raw("</select></div>")

	inputField(ctx, hw, model.FieldSubmittedBy, "text", "form.submitted_by", form, false)
	inputField(ctx, hw, model.FieldEmail, "email", "form.email", form, false)

	hw.raw("</div></div>")
}

func detailsSection(ctx context.Context, hw *htmlWriter, form model.FormState) {
	hw.raw("<div class=\"section\"><h3>")
	hw.text(i18n.T(ctx, "form.section.details"))
	hw.raw("</h3><div class=\"field\"><label for=\"description\">")
	hw.text(i18n.T(ctx, "form.description"))
	hw.raw("</label><textarea id=\"description\" rows=\"6\" required data-field")
	hw.attr("name", model.FieldDescription)
	hw.attr("placeholder", i18n.T(ctx, "form.description.placeholder"))
	hw.raw(">")
	hw.text(form.Description)
	hw.raw("</textarea><p class=\"hint\">")
	hw.text(i18n.Tf(ctx, "form.description.hint", model.DescriptionMinLength))
	hw.raw("</p></div></div>")
}

func attachmentsSection(ctx context.Context, hw *htmlWriter, files []model.SelectedFile) {
	hw.raw("<div class=\"section\"><h3>")
	hw.text(i18n.T(ctx, "form.section.attachments"))
	hw.raw("</h3><p class=\"muted\">")
	hw.text(i18n.T(ctx, "form.attachments.hint"))
	hw.raw("</p><label class=\"file-picker\"><span>")
	hw.text(i18n.T(ctx, "form.files.select"))
	hw.raw("</span><input id=\"file-input\" type=\"file\" name=\"files\" multiple")
	hw.attr("accept", model.AcceptedExtensions)
	hw.raw("></label><div id=\"file-list\">")
	hw.component(ctx, FileList(files))
	hw.raw("</div></div>")
}

// inputField — поле ввода с подписью и placeholder из каталога.
// Значение берётся из формы по имени поля.
func inputField(ctx context.Context, hw *htmlWriter, name, inputType, labelKey string, form model.FormState, required bool) {
	value, _ := form.Get(name)
	hw.raw("<div class=\"field\"><label")
	hw.attr("for", name)
	hw.raw(">")
	hw.text(i18n.T(ctx, labelKey))
	hw.raw("</label><input data-field")
	hw.attr("id", name)
	hw.attr("name", name)
	hw.attr("type", inputType)
	hw.attr("value", value)
	hw.attr("placeholder", i18n.T(ctx, labelKey+".placeholder"))
	if name == model.FieldReportDate {
		// DD/MM/YYYY
		hw.attr("maxlength", "10")
		hw.attr("inputmode", "numeric")
	}
	hw.boolAttr("required", required)
	hw.raw("></div>")
}
