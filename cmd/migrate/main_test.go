package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	forced     int
}

func (f *fakeMigrator) Up() error   { return f.upErr }
func (f *fakeMigrator) Down() error { return f.downErr }

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func (f *fakeMigrator) Force(v int) error {
	f.forced = v
	return nil
}

func TestRun(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name    string
		m       *fakeMigrator
		args    []string
		want    string
		wantErr error
		errText string
	}{
		{name: "no command", m: &fakeMigrator{}, wantErr: errUsage},
		{name: "unknown command", m: &fakeMigrator{}, args: []string{"sideways"}, wantErr: errUsage},
		{name: "up", m: &fakeMigrator{}, args: []string{"up"}, want: "Migrated up successfully"},
		{name: "up already current", m: &fakeMigrator{upErr: migrate.ErrNoChange}, args: []string{"up"}, want: "Migrated up successfully"},
		{name: "up wrapped no change", m: &fakeMigrator{upErr: wrap(migrate.ErrNoChange)}, args: []string{"up"}, want: "Migrated up successfully"},
		{name: "up failure", m: &fakeMigrator{upErr: boom}, args: []string{"up"}, wantErr: boom},
		{name: "down already current", m: &fakeMigrator{downErr: migrate.ErrNoChange}, args: []string{"down"}, want: "Migrated down successfully"},
		{name: "version", m: &fakeMigrator{version: 1}, args: []string{"version"}, want: "Version: 1, Dirty: false"},
		{name: "version before any migration", m: &fakeMigrator{versionErr: migrate.ErrNilVersion}, args: []string{"version"}, want: "No migration applied yet"},
		{name: "force without version", m: &fakeMigrator{}, args: []string{"force"}, errText: "requires a version"},
		{name: "force bad version", m: &fakeMigrator{}, args: []string{"force", "x"}, errText: "invalid version"},
		{name: "force", m: &fakeMigrator{}, args: []string{"force", "1"}, want: "Forced version to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(tt.m, tt.args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Fatalf("expected error containing %q, got %v", tt.errText, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Fatalf("expected %q, got %q", tt.want, got)
				}
			}
		})
	}
}

func TestRunForcePassesVersion(t *testing.T) {
	m := &fakeMigrator{}
	if _, err := run(m, []string{"force", "3"}); err != nil {
		t.Fatalf("force: %v", err)
	}
	if m.forced != 3 {
		t.Fatalf("expected forced version 3, got %d", m.forced)
	}
}

func wrap(err error) error {
	return errors.Join(errors.New("source"), err)
}
