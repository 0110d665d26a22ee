package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueRunViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "pg unique violation on the run constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uq_job_runs_name_date"},
			want: true,
		},
		{
			name: "wrapped pg unique violation",
			err: fmt.Errorf("create run: %w",
				&pgconn.PgError{Code: "23505", ConstraintName: "uq_job_runs_name_date"}),
			want: true,
		},
		{
			name: "pg error with a different code",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "uq_job_runs_name_date"},
			want: false,
		},
		{
			name: "pg unique violation on another constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "attendance_records_pkey"},
			want: false,
		},
		{
			// Drivers that do not surface *pgconn.PgError still get caught
			// by the message fallback.
			name: "plain error with postgres duplicate message",
			err:  errors.New(`duplicate key value violates unique constraint "uq_job_runs_name_date"`),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueRunViolation(tt.err))
		})
	}
}
