package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"testing"

	"github.com/lib/pq"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
)

func TestMapWriteError_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"unique violation", &pq.Error{Code: pqUniqueViolation, Constraint: "teams_nba_team_id_key"}, datasync.IsConstraint},
		{"foreign key violation", &pq.Error{Code: pqForeignKeyViolation}, datasync.IsConstraint},
		{"check violation", &pq.Error{Code: pqCheckViolation}, datasync.IsConstraint},
		{"connection failure", &pq.Error{Code: "08006"}, datasync.IsTransient},
		{"connection does not exist", &pq.Error{Code: "08003"}, datasync.IsTransient},
		{"admin shutdown", &pq.Error{Code: "57P01"}, datasync.IsTransient},
		{"invalid password", &pq.Error{Code: pqInvalidPassword}, datasync.IsFatal},
		{"invalid authorization", &pq.Error{Code: pqInvalidAuthorization}, datasync.IsFatal},
		{"unknown database", &pq.Error{Code: pqInvalidCatalogName}, datasync.IsFatal},
		{"bad driver connection", driver.ErrBadConn, datasync.IsTransient},
		{"closed connection", sql.ErrConnDone, datasync.IsTransient},
		{"dial refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, datasync.IsTransient},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mapWriteError(datasync.EntityTeams, "1", tc.err)
			if !tc.want(got) {
				t.Fatalf("mapWriteError(%v) = %v, wrong classification", tc.err, got)
			}
			if !errors.Is(got, tc.err) && !errors.As(got, new(*pq.Error)) {
				t.Fatalf("mapped error must keep the cause, got %v", got)
			}
		})
	}
}

func TestMapWriteError_ConstraintCarriesRowKey(t *testing.T) {
	t.Parallel()

	cause := &pq.Error{Code: pqUniqueViolation, Constraint: "player_stats_unique_row"}
	got := mapWriteError(datasync.EntityStats, "9001", cause)

	var constraintErr *datasync.ConstraintError
	if !errors.As(got, &constraintErr) {
		t.Fatalf("expected ConstraintError, got %v", got)
	}
	if constraintErr.Key != "9001" {
		t.Fatalf("constraint key %q, want 9001", constraintErr.Key)
	}
	if constraintErr.Constraint != "player_stats_unique_row" {
		t.Fatalf("constraint name %q, want player_stats_unique_row", constraintErr.Constraint)
	}
}

func TestMapWriteError_LeavesStatementErrorsUntouched(t *testing.T) {
	t.Parallel()

	// Invalid text representation: the server rejected one statement,
	// the session is fine. Row-level quarantine handles it.
	dataErr := &pq.Error{Code: "22P02"}
	if got := mapWriteError(datasync.EntityPlayers, "7", dataErr); !errors.Is(got, dataErr) {
		t.Fatalf("data error reclassified to %v", got)
	}

	plain := errors.New("scan destination mismatch")
	if got := mapWriteError(datasync.EntityPlayers, "7", plain); !errors.Is(got, plain) {
		t.Fatalf("plain error reclassified to %v", got)
	}
}
