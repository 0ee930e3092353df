package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pratofeito/pratofeito/internal/orders"
)

func TestWriteErrMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{orders.ErrNotFound, http.StatusNotFound},
		{orders.ErrForbidden, http.StatusForbidden},
		{orders.ErrBadTransition, http.StatusConflict},
		{fmt.Errorf("%w: PENDING -> DELIVERED", orders.ErrBadTransition), http.StatusConflict},
		{orders.ErrRestaurantClosed, http.StatusUnprocessableEntity},
		{orders.ErrAlreadyReviewed, http.StatusUnprocessableEntity},
		{orders.ErrNotDelivered, http.StatusUnprocessableEntity},
		{orders.ErrValidation, http.StatusBadRequest},
		{orders.ErrEmptyCart, http.StatusBadRequest},
		{fmt.Errorf("%w: dish 9", orders.ErrWrongRestaurant), http.StatusBadRequest},
		{errors.New("pg connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeErr(rec, tt.err)
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}

func TestWriteErrHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErr(rec, errors.New("dsn password leaked"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHeaderIdentity(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Zero(t, customerID(r))
	assert.Zero(t, restaurantID(r))

	r.Header.Set("X-Customer-ID", "42")
	r.Header.Set("X-Restaurant-ID", "7")
	assert.Equal(t, int64(42), customerID(r))
	assert.Equal(t, int64(7), restaurantID(r))

	r.Header.Set("X-Customer-ID", "-3")
	assert.Zero(t, customerID(r))
	r.Header.Set("X-Customer-ID", "abc")
	assert.Zero(t, customerID(r))
}
