package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"checklist/internal/config"
	"checklist/internal/logging"
	"checklist/internal/storage"
	"checklist/internal/todo"
	"checklist/internal/ui"
)

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

// session is everything a command needs once config, storage and logging
// are up.
type session struct {
	cfg    config.Config
	store  *storage.Store
	writer *todo.Writer
	list   *todo.List
	logger *log.Logger

	closers []func() error
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "todo",
		Short: "A small to-do list for the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML (default: $TODO_CONFIG or the user config dir)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newListCmd(opts), newAddCmd(opts), newClearCompletedCmd(opts))
	return root
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	s, err := openSession(opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("starting tui", "db_path", s.cfg.DBPath, "filter", s.cfg.Filter())
	if err := ui.Run(ctx, s.store, s.list, s.cfg, s.logger); err != nil {
		s.logger.Error("tui exited with error", "err", err)
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// openSession loads config and opens storage. Logs go to logOut when it is
// set, otherwise to the configured log file.
func openSession(opts *rootOptions, logOut io.Writer) (*session, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if strings.TrimSpace(opts.dbPath) != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	s := &session{cfg: cfg}
	switch {
	case logOut != nil:
		s.logger, err = logging.New(logOut, cfg.Log.Level)
	case cfg.Log.File != "":
		var closeLog func() error
		s.logger, closeLog, err = logging.OpenFile(cfg.Log.File, cfg.Log.Level)
		if err == nil {
			s.closers = append(s.closers, closeLog)
		}
	default:
		s.logger, err = logging.New(io.Discard, cfg.Log.Level)
	}
	if err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	s.logger.Debug("configuration loaded", "config_path", configPath, "db_path", cfg.DBPath)

	s.store, err = storage.Open(cfg.DBPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.closers = append(s.closers, s.store.Close)

	s.writer = todo.NewWriter(s.store, s.logger)
	s.closers = append(s.closers, s.writer.Close)
	s.list = todo.NewList(cfg.Filter(), s.writer, s.logger)
	return s, nil
}

// loadNow reads the list synchronously for the one-shot subcommands. Unlike
// the TUI, a corrupt list is an error here so it is never overwritten.
func (s *session) loadNow(ctx context.Context) error {
	s.list.BeginLoad()
	items, err := todo.Load(ctx, s.store)
	s.list.Loaded(items, err)
	return err
}

func (s *session) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.writer.Flush(ctx)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.loadNow(ctx); err != nil {
				return err
			}
			if filter != "" {
				mode, err := todo.ParseFilter(filter)
				if err != nil {
					return err
				}
				s.list.SetFilter(mode)
			}

			out := cmd.OutOrStdout()
			for _, it := range s.list.View() {
				box := "[ ]"
				if it.Complete {
					box = "[x]"
				}
				fmt.Fprintf(out, "%s %s\n", box, it.Text)
			}
			fmt.Fprintf(out, "%d left\n", s.list.ActiveCount())
			at, err := s.store.UpdatedAt(ctx, todo.StorageKey)
			if err != nil {
				s.logger.Debug("read last saved time failed", "err", err)
			} else if !at.IsZero() {
				fmt.Fprintf(out, "saved %s\n", at.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "all, active or completed")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.loadNow(ctx); err != nil {
				return err
			}
			s.list.SetDraft(strings.Join(args, " "))
			it, ok := s.list.Add()
			if !ok {
				return errors.New("task text is empty")
			}
			if err := s.flush(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", it.Text)
			return nil
		},
	}
}

func newClearCompletedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.loadNow(ctx); err != nil {
				return err
			}
			before := len(s.list.Items())
			s.list.ClearCompleted()
			if err := s.flush(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", before-len(s.list.Items()))
			return nil
		},
	}
}

