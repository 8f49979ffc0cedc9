// Пакет format — маски ввода и форматирование значений для отображения в форме.
package format

import (
	"math"
	"strconv"
	"strings"
)

// maxDateDigits — DDMMYYYY.
const maxDateDigits = 8

// FormatDateInput применяет маску даты к произвольному вводу:
// удаляет всё, кроме цифр, обрезает до 8 цифр и вставляет "/"
// после 2-й и 4-й цифры. Частичный ввод даёт частичную маску.
// Корректность даты (день <= 31 и т.п.) не проверяется.
//
//	"01022025" → "01/02/2025"
//	"0102"     → "01/02"
//	"abc123"   → "12/3"
func FormatDateInput(value string) string {
	digits := make([]byte, 0, maxDateDigits)
	for i := 0; i < len(value) && len(digits) < maxDateDigits; i++ {
		if c := value[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	switch {
	case len(digits) <= 2:
		return string(digits)
	case len(digits) <= 4:
		return string(digits[:2]) + "/" + string(digits[2:])
	default:
		return string(digits[:2]) + "/" + string(digits[2:4]) + "/" + string(digits[4:])
	}
}

// fileSizeUnits — единицы размера, шаг 1024.
var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize форматирует размер файла для списка вложений:
// 0 → "0 Bytes", 1536 → "1.5 KB", 1048576 → "1 MB".
// Значение округляется до двух знаков, незначащие нули отбрасываются.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	// Индекс единицы — floor(log1024(bytes)), считаем целочисленно,
	// чтобы точные степени 1024 не теряли единицу из-за погрешности Log.
	i := 0
	div := int64(1)
	for i < len(fileSizeUnits)-1 && bytes/div >= 1024 {
		div *= 1024
		i++
	}

	value := math.Round(float64(bytes)/float64(div)*100) / 100

	var b strings.Builder
	b.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(fileSizeUnits[i])
	return b.String()
}
