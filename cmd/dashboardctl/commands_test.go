package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/football-dashboard/internal/config"
	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

type stubUsers struct {
	saved    []account.Credential
	disabled []string
	found    bool
}

func (s *stubUsers) Upsert(_ context.Context, credential account.Credential) error {
	s.saved = append(s.saved, credential)
	return nil
}

func (s *stubUsers) Disable(_ context.Context, username string) (bool, error) {
	s.disabled = append(s.disabled, username)
	return s.found, nil
}

type stubExporter struct {
	result usecase.ExportResult
	kind   report.Kind
	team   string
}

func (s *stubExporter) Export(_ context.Context, kind report.Kind, _ int64, teamRef, _ string) (usecase.ExportResult, error) {
	s.kind = kind
	s.team = teamRef
	return s.result, nil
}

func testDeps(users *stubUsers, exporter *stubExporter) deps {
	noop := func() error { return nil }
	return deps{
		loadConfig: func() (config.Config, error) { return config.Config{}, nil },
		openUsers: func(config.Config) (UserStore, func() error, error) {
			return users, noop, nil
		},
		openExporter: func(config.Config) (Exporter, func() error, error) {
			return exporter, noop, nil
		},
	}
}

func run(t *testing.T, d deps, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(d)
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestHashPasswordReadsStdin(t *testing.T) {
	out, _, err := run(t, testDeps(nil, nil), "s3cret\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPasswordRequiresInput(t *testing.T) {
	_, _, err := run(t, testDeps(nil, nil), "", "hash-password")
	require.Error(t, err)
}

func TestUserAddStoresHash(t *testing.T) {
	users := &stubUsers{}
	out, _, err := run(t, testDeps(users, nil), "", "user", "add", " ana ", "--password", "pw")
	require.NoError(t, err)

	require.Len(t, users.saved, 1)
	assert.Equal(t, "ana", users.saved[0].Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.saved[0].PasswordHash), []byte("pw")))
	assert.Contains(t, out, "user ana saved")
}

func TestUserDisableUnknown(t *testing.T) {
	users := &stubUsers{found: false}
	_, _, err := run(t, testDeps(users, nil), "", "user", "disable", "ghost")
	require.Error(t, err)
	assert.Equal(t, []string{"ghost"}, users.disabled)
}

func TestExportCopiesReport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Equipo.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o600))

	exporter := &stubExporter{result: usecase.ExportResult{OK: true, Kind: report.KindTeam, Path: src}}
	dst := filepath.Join(dir, "out", "team.pdf")
	out, _, err := run(t, testDeps(nil, exporter), "", "export", "team", "--team", "Arsenal", "-o", dst)
	require.NoError(t, err)

	assert.Equal(t, report.KindTeam, exporter.kind)
	assert.Equal(t, "Arsenal", exporter.team)
	assert.Equal(t, dst+"\n", out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestExportFailurePrintsNotices(t *testing.T) {
	exporter := &stubExporter{result: usecase.ExportResult{
		Kind:    report.KindForwards,
		Notices: []usecase.Notice{{Level: usecase.NoticeWarning, Message: "No hay datos que exportar"}},
	}}
	_, errOut, err := run(t, testDeps(nil, exporter), "", "export", "forwards")
	require.Error(t, err)
	assert.Contains(t, errOut, "warning: No hay datos que exportar")
}

func TestExportRejectsUnknownKind(t *testing.T) {
	_, _, err := run(t, testDeps(nil, &stubExporter{}), "", "export", "fixtures")
	require.Error(t, err)
}
