package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-dashboard/internal/app"
	"github.com/riskibarqy/football-dashboard/internal/config"
	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/account/postgres"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/account/static"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

// UserStore is the part of the postgres credential store the CLI writes to.
type UserStore interface {
	Upsert(ctx context.Context, credential account.Credential) error
	Disable(ctx context.Context, username string) (bool, error)
}

type Exporter interface {
	Export(ctx context.Context, kind report.Kind, competitionID int64, teamRef, league string) (usecase.ExportResult, error)
}

type deps struct {
	openUsers    func(cfg config.Config) (UserStore, func() error, error)
	openExporter func(cfg config.Config) (Exporter, func() error, error)
	loadConfig   func() (config.Config, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		openUsers: func(cfg config.Config) (UserStore, func() error, error) {
			if cfg.DBURL == "" {
				return nil, nil, fmt.Errorf("DB_URL is required")
			}
			db, err := app.OpenDB(cfg)
			if err != nil {
				return nil, nil, err
			}
			return postgres.NewCredentialRepository(db), db.Close, nil
		},
		openExporter: func(cfg config.Config) (Exporter, func() error, error) {
			services, err := app.NewServices(cfg, logging.Default())
			if err != nil {
				return nil, nil, err
			}
			return services.Reports, services.Close, nil
		},
	}
}

func newRootCommand(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboardctl",
		Short:         "Operator tasks for the football dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newHashPasswordCommand(),
		newUserCommand(d),
		newExportCommand(d),
	)
	return root
}

func newHashPasswordCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for AUTH_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			hash, err := static.HashPassword(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to hash (read from stdin when empty)")
	return cmd
}

func newUserCommand(d deps) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage analysts in the postgres credential store",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an analyst or reset their password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			plain, err := readPassword(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			hash, err := static.HashPassword(plain)
			if err != nil {
				return err
			}
			return withUsers(d, func(store UserStore) error {
				if err := store.Upsert(cmd.Context(), account.Credential{Username: username, PasswordHash: hash}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s saved\n", username)
				return nil
			})
		},
	}
	add.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")

	disable := &cobra.Command{
		Use:   "disable <username>",
		Short: "Block an analyst from logging in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			return withUsers(d, func(store UserStore) error {
				found, err := store.Disable(cmd.Context(), username)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no enabled user %q", username)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s disabled\n", username)
				return nil
			})
		},
	}

	user.AddCommand(add, disable)
	return user
}

func newExportCommand(d deps) *cobra.Command {
	var (
		competitionID int64
		teamRef       string
		league        string
		out           string
	)
	cmd := &cobra.Command{
		Use:       "export <standings|scorers|team|forwards>",
		Short:     "Render a PDF report without the web server",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(report.KindStandings), string(report.KindScorers), string(report.KindTeam), string(report.KindForwards)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := report.ParseKind(args[0])
			if err != nil {
				return err
			}
			cfg, err := d.loadConfig()
			if err != nil {
				return err
			}
			exporter, closeFn, err := d.openExporter(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			result, err := exporter.Export(cmd.Context(), kind, competitionID, teamRef, league)
			if err != nil {
				return err
			}
			for _, notice := range result.Notices {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", notice.Level, notice.Message)
			}
			if !result.OK {
				return fmt.Errorf("%s report was not generated", kind)
			}

			path := result.Path
			if out != "" {
				if err := copyFile(result.Path, out); err != nil {
					return err
				}
				path = out
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().Int64Var(&competitionID, "competition", 0, "competition id (first available when 0)")
	cmd.Flags().StringVar(&teamRef, "team", "", "team id or name for the team report")
	cmd.Flags().StringVar(&league, "league", "", "league for the forwards report")
	cmd.Flags().StringVarP(&out, "out", "o", "", "copy the PDF to this path")
	return cmd
}

func withUsers(d deps, run func(UserStore) error) error {
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}
	store, closeFn, err := d.openUsers(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return run(store)
}

func readPassword(in io.Reader, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
