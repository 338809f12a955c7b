package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr      error
	steps      []int
	forced     []int
	version    uint
	versionErr error
}

func (f *fakeMigrator) Up() error   { return f.upErr }
func (f *fakeMigrator) Down() error { return migrate.ErrNoChange }
func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, f.versionErr }
func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	return nil
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		m       *fakeMigrator
		args    []string
		want    string
		wantErr error
	}{
		{"up with nothing pending", &fakeMigrator{upErr: migrate.ErrNoChange}, []string{"up"}, "class_logs schema is up to date\n", nil},
		{"down with nothing applied", &fakeMigrator{}, []string{"down"}, "class_logs schema removed\n", nil},
		{"version", &fakeMigrator{version: 1}, []string{"version"}, "Version: 1, Dirty: false\n", nil},
		{"fresh database", &fakeMigrator{versionErr: migrate.ErrNilVersion}, []string{"version"}, "No migration applied yet\n", nil},
		{"steps back", &fakeMigrator{}, []string{"steps", "-1"}, "Applied -1 migration step(s)\n", nil},
		{"force", &fakeMigrator{}, []string{"force", "1"}, "Forced version to 1\n", nil},
		{"force without version", &fakeMigrator{}, []string{"force"}, "", errUsage},
		{"force with text", &fakeMigrator{}, []string{"force", "one"}, "", errUsage},
		{"unknown command", &fakeMigrator{}, []string{"seed"}, "", errUsage},
		{"no command", &fakeMigrator{}, nil, "", errUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.m, tt.args, &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_UpFailure(t *testing.T) {
	err := run(&fakeMigrator{upErr: errors.New("relation already exists")}, []string{"up"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "relation already exists")
}
