package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("shipment 3: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("package 1: %w", pkgerrors.ErrConflict), http.StatusConflict, "conflict"},
		{"invalid", fmt.Errorf("bad: %w", pkgerrors.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"validation", &types.ValidationError{Fields: map[string]string{"state": "too long"}}, http.StatusBadRequest, "validation_failed"},
		{"explicit", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
		{"other", errors.New("db down"), http.StatusInternalServerError, "load_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := From(tc.err, "load_failed")
			assert.Equal(t, tc.status, ae.Status)
			assert.Equal(t, tc.code, ae.Code)
		})
	}

	ae := From(&types.ValidationError{Fields: map[string]string{"state": "too long"}}, "x")
	assert.Equal(t, "too long", ae.Fields["state"])
}
