package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: EInternal},
		{name: "conflict", err: Conflict("taken"), want: EConflict},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", NotFound("missing")), want: ENotFound},
		{name: "validation", err: ValidationFailed([]Violation{{Field: "email", Message: "bad"}}), want: EInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Access denied", ErrorMessage(Forbidden("Access denied")))
	assert.Equal(t, "An internal error has occurred.", ErrorMessage(Internal("db.find", errors.New("conn reset"))))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: EInternal, Msg: "listing failed", Err: errors.New("timeout")}
	assert.Equal(t, "listing failed: timeout", err.Error())
	assert.Equal(t, "<conflict>", (&Error{Code: EConflict}).Error())
}

func TestViolationsOf(t *testing.T) {
	vs := []Violation{{Field: "email", Message: "Invalid email format"}}
	assert.Equal(t, vs, ViolationsOf(fmt.Errorf("register: %w", ValidationFailed(vs))))
	assert.Nil(t, ViolationsOf(errors.New("x")))
}
