package recordingsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

var errUnknown = errors.New("unknown error")

func Test_handlePgError(t *testing.T) {
	tests := []struct {
		name      string
		inputErr  error
		errTarget error
		wantOk    bool
	}{
		{
			name:      "23505 error",
			inputErr:  &pgconn.PgError{Code: "23505"},
			errTarget: serviceerr.ErrConflict,
			wantOk:    true,
		},
		{
			name:      "Wrapped 23505 error",
			inputErr:  fmt.Errorf("inserting: %w", &pgconn.PgError{Code: "23505"}),
			errTarget: serviceerr.ErrConflict,
			wantOk:    true,
		},
		{
			name:      "Other pg error",
			inputErr:  &pgconn.PgError{Code: "42P01"},
			errTarget: nil,
			wantOk:    false,
		},
		{
			name:      "Unknown error",
			inputErr:  errUnknown,
			errTarget: errUnknown,
			wantOk:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, ok := handlePgError(tt.inputErr)
			if tt.errTarget != nil {
				assert.ErrorIsf(t, gotErr, tt.errTarget, "handlePgError() error %v", gotErr)
			} else {
				assert.Equal(t, tt.inputErr, gotErr)
			}
			assert.Equal(t, tt.wantOk, ok, "handlePgError() OK = %v, want = %v", ok, tt.wantOk)
		})
	}
}
