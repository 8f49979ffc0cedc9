// Пакет model — доменные модели формы отчёта.
package model

import (
	"errors"
	"fmt"
)

// Имена полей формы (совпадают с атрибутом name в HTML и с полями multipart API).
const (
	FieldReportDate  = "reportDate"
	FieldRegion      = "region"
	FieldSubmittedBy = "submittedBy"
	FieldEmail       = "email"
	FieldDescription = "description"
)

// FieldNames — все поля формы в порядке отображения.
var FieldNames = []string{
	FieldReportDate,
	FieldRegion,
	FieldSubmittedBy,
	FieldEmail,
	FieldDescription,
}

// DescriptionMinLength — подсказка о минимальной длине описания.
// Только отображается в UI, логикой не проверяется.
const DescriptionMinLength = 50

// ErrUnknownField — поле с таким именем в форме отсутствует.
var ErrUnknownField = errors.New("неизвестное поле формы")

// FormState — значения полей формы отчёта.
type FormState struct {
	ReportDate  string `json:"reportDate"`
	Region      string `json:"region"`
	SubmittedBy string `json:"submittedBy"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// Get возвращает значение поля по имени.
func (f *FormState) Get(name string) (string, error) {
	switch name {
	case FieldReportDate:
		return f.ReportDate, nil
	case FieldRegion:
		return f.Region, nil
	case FieldSubmittedBy:
		return f.SubmittedBy, nil
	case FieldEmail:
		return f.Email, nil
	case FieldDescription:
		return f.Description, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Set записывает значение поля по имени как есть, без преобразований.
func (f *FormState) Set(name, value string) error {
	switch name {
	case FieldReportDate:
		f.ReportDate = value
	case FieldRegion:
		f.Region = value
	case FieldSubmittedBy:
		f.SubmittedBy = value
	case FieldEmail:
		f.Email = value
	case FieldDescription:
		f.Description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// IsEmpty — все поля пустые.
func (f FormState) IsEmpty() bool {
	return f == FormState{}
}

// Region — элемент списка выбора региона.
type Region struct {
	// Value — значение, сохраняемое в FormState.Region
	Value string
	// Name — отображаемое название
	Name string
}

// Regions — регионы (kraje) Чехии, доступные в форме.
var Regions = []Region{
	{Value: "praha", Name: "Praha"},
	{Value: "stredocesky", Name: "Středočeský kraj"},
	{Value: "jihocesky", Name: "Jihočeský kraj"},
	{Value: "plzensky", Name: "Plzeňský kraj"},
	{Value: "karlovarsky", Name: "Karlovarský kraj"},
	{Value: "ustecky", Name: "Ústecký kraj"},
	{Value: "liberecky", Name: "Liberecký kraj"},
	{Value: "kralovehradecky", Name: "Královéhradecký kraj"},
	{Value: "pardubicky", Name: "Pardubický kraj"},
	{Value: "vysocina", Name: "Kraj Vysočina"},
	{Value: "jihomoravsky", Name: "Jihomoravský kraj"},
	{Value: "olomoucky", Name: "Olomoucký kraj"},
	{Value: "zlinsky", Name: "Zlínský kraj"},
	{Value: "moravskoslezsky", Name: "Moravskoslezský kraj"},
}
