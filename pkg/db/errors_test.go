package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "postgres duplicate key", err: errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`), want: true},
		{name: "sqlite unique constraint", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "named constraint matches", err: errors.New(`violates unique constraint "users_email_key"`), constraint: "users_email_key", want: true},
		{name: "named constraint misses", err: errors.New(`violates unique constraint "users_email_key"`), constraint: "stores_name_key", want: false},
		{name: "unrelated error", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
