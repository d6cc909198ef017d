package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizer_T(t *testing.T) {
	en := NewLocalizer(LocaleEnglish)
	es := NewLocalizer(LocaleSpanish)

	assert.Equal(t, "Employee not found", en.T("errors.not_found", map[string]string{"resource": "Employee"}))
	assert.Equal(t, "Token inválido", es.T("errors.token_invalid"))
	assert.Equal(t, "errors.does_not_exist", en.T("errors.does_not_exist"))
}

func TestNewLocalizer_UnknownLocaleFallsBack(t *testing.T) {
	assert.Equal(t, DefaultLocale, NewLocalizer("fr").GetLocale())
}

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", LocaleEnglish},
		{"es-MX,es;q=0.9", LocaleSpanish},
		{"fr-FR,es;q=0.5", LocaleSpanish},
		{"de-DE", LocaleEnglish},
		{"en-GB,en;q=0.8", LocaleEnglish},
		{"not a header;;", LocaleEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcceptLanguage(tt.header))
		})
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, LocaleSpanish, got)
	assert.Equal(t, DefaultLocale, GetLocaleFromContext(context.Background()))
}
