package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("employee")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "Employee not found", err.Message)
	assert.True(t, Is(err, ErrNotFound))

	ctx := i18n.WithLocale(context.Background(), i18n.LocaleSpanish)
	assert.Equal(t, "Empleado no encontrado", err.Localize(ctx))
}

func TestConstructors_DefaultMessage(t *testing.T) {
	err := Forbidden("")
	assert.Equal(t, "Not enough permissions", err.Message)
	assert.Equal(t, "errors.forbidden", err.MessageKey)

	custom := Forbidden("Not authorized to view this employee")
	assert.Equal(t, "Not authorized to view this employee", custom.Message)
	assert.Empty(t, custom.MessageKey)
	assert.Equal(t, custom.Message, custom.Localize(context.Background()))
}

func TestWithKey(t *testing.T) {
	err := BadRequest("").WithKey("errors.self_delete")
	assert.Equal(t, "Cannot delete your own account", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Conflict("duplicate"))

	assert.Equal(t, http.StatusConflict, StatusCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(stderrors.New("boom")))
	assert.Equal(t, "120", TooManyRequests(120).Details["retry_after"])
}

func TestWithResource_TranslatedPerRequest(t *testing.T) {
	err := BadRequest("").WithKey("errors.not_found").WithResource("employee")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Employee not found", err.Message)
	assert.Equal(t, "Employee not found", err.Localize(context.Background()))

	es := i18n.WithLocale(context.Background(), i18n.LocaleSpanish)
	assert.Equal(t, "Empleado no encontrado", err.Localize(es))
	assert.Equal(t, "Employee", err.Params["resource"])
}
