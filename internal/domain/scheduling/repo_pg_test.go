package scheduling

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantOK         bool
	}{
		{
			name:           "doctor slot index",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "appointments_doctor_slot_active_idx"},
			wantConstraint: "appointments_doctor_slot_active_idx",
			wantOK:         true,
		},
		{
			name:           "patient slot index",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "appointments_patient_slot_active_idx"},
			wantConstraint: "appointments_patient_slot_active_idx",
			wantOK:         true,
		},
		{
			name:           "wrapped duplicate key",
			err:            fmt.Errorf("insert appointment: %w", &pgconn.PgError{Code: "23505", ConstraintName: "appointments_doctor_slot_active_idx"}),
			wantConstraint: "appointments_doctor_slot_active_idx",
			wantOK:         true,
		},
		{
			name:   "other pg error code",
			err:    &pgconn.PgError{Code: "23503", ConstraintName: "appointments_doctor_id_fkey"},
			wantOK: false,
		},
		{
			name:   "plain error",
			err:    errors.New("connection reset"),
			wantOK: false,
		},
		{
			name:   "nil error",
			err:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := uniqueViolation(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if constraint != tt.wantConstraint {
				t.Errorf("constraint = %q, want %q", constraint, tt.wantConstraint)
			}
		})
	}
}
