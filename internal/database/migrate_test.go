package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2)

	for _, e := range entries {
		body, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		assert.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	schema, err := fs.ReadFile(migrations, "migrations/00001_init_schema.sql")
	assert.NoError(t, err)
	for _, constraint := range []string{
		"uq_employee_number", "uq_employee_email", "uq_user_email", "uq_attendance_employee_date",
	} {
		assert.True(t, strings.Contains(string(schema), constraint), constraint)
	}
}
