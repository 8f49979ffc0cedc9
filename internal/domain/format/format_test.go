package format

import (
	"strings"
	"testing"
)

func TestFormatDateInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"пустая строка", "", ""},
		{"одна цифра", "0", "0"},
		{"день целиком", "01", "01"},
		{"частичный месяц", "012", "01/2"},
		{"день и месяц", "0102", "01/02"},
		{"частичный год", "01022", "01/02/2"},
		{"полная дата", "01022025", "01/02/2025"},
		{"лишние цифры обрезаются", "0102202512", "01/02/2025"},
		{"буквы удаляются", "abc123", "12/3"},
		{"уже отформатированная дата", "01/02/2025", "01/02/2025"},
		{"повторное редактирование маски", "01/02/20251", "01/02/2025"},
		{"без проверки календаря", "99999999", "99/99/9999"},
		{"только нецифровые символы", "ab/-.", ""},
		{"не-ASCII цифры игнорируются", "١٢34", "34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDateInput(tt.input)
			if got != tt.expected {
				t.Errorf("FormatDateInput(%q) = %q, ожидается %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFormatDateInput_DigitsPreserved проверяет, что для цифровых строк длиной 0-8
// цифры результата совпадают с входом, а форма соответствует DD, DD/MM или DD/MM/YYYY.
func TestFormatDateInput_DigitsPreserved(t *testing.T) {
	const all = "31122024"
	for n := 0; n <= len(all); n++ {
		input := all[:n]
		got := FormatDateInput(input)

		if digits := strings.ReplaceAll(got, "/", ""); digits != input {
			t.Errorf("FormatDateInput(%q): цифры %q не совпадают со входом", input, digits)
		}

		slashes := strings.Count(got, "/")
		var want int
		switch {
		case n <= 2:
			want = 0
		case n <= 4:
			want = 1
		default:
			want = 2
		}
		if slashes != want {
			t.Errorf("FormatDateInput(%q) = %q: ожидалось %d разделителей, получено %d", input, got, want, slashes)
		}
		if slashes >= 1 && got[2] != '/' {
			t.Errorf("FormatDateInput(%q) = %q: разделитель должен стоять после дня", input, got)
		}
		if slashes == 2 && got[5] != '/' {
			t.Errorf("FormatDateInput(%q) = %q: разделитель должен стоять после месяца", input, got)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{5 * 1024 * 1024, "5 MB"},
		{1234567, "1.18 MB"},
		{1073741824, "1 GB"},
		// Больше GB единиц нет — остаёмся в GB
		{2 * 1024 * 1024 * 1024 * 1024, "2048 GB"},
	}

	for _, tt := range tests {
		got := FormatFileSize(tt.bytes)
		if got != tt.expected {
			t.Errorf("FormatFileSize(%d) = %q, ожидается %q", tt.bytes, got, tt.expected)
		}
	}
}
