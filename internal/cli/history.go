package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipline/clipline/internal/event"
	"github.com/clipline/clipline/internal/history"
	"github.com/clipline/clipline/internal/project"
	"github.com/clipline/clipline/internal/store"
	"github.com/clipline/clipline/internal/taskqueue"
)

// NewHistoryCommand creates the "history" command group.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Drive a project's undo/redo history",
	}
	cmd.AddCommand(newHistoryPushCommand(opts))
	cmd.AddCommand(newHistoryUndoCommand(opts))
	cmd.AddCommand(newHistoryRedoCommand(opts))
	cmd.AddCommand(newHistoryLogCommand(opts))
	cmd.AddCommand(newHistoryClearCommand(opts))
	return cmd
}

// newMachine builds an initialized history machine for one command
// run. In verbose mode a wildcard bus listener logs every engine
// event.
func newMachine(cmd *cobra.Command, opts *RootOptions, s *store.SQLite, projectID string) (*history.Machine, *history.Snapshot, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	queueOpts := []taskqueue.Option{taskqueue.WithInterval(cfg.Queue.Interval())}
	if cfg.Queue.Immediate {
		queueOpts = append(queueOpts, taskqueue.WithImmediate())
	}

	machineOpts := []history.Option{
		history.WithQueue(taskqueue.New(queueOpts...)),
	}
	if opts.Verbose {
		bus := event.NewBus()
		bus.On(event.Wildcard, func(args ...any) {
			slog.Debug("engine event", "args", args)
		})
		machineOpts = append(machineOpts, history.WithBus(bus))
	}

	m := history.New(s, projectID, machineOpts...)
	snap, err := m.Init(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return m, snap, nil
}

func newHistoryPushCommand(opts *RootOptions) *cobra.Command {
	var (
		projectID string
		file      string
		sets      []string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Append a new edit state to the project's history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, snap, err := newMachine(cmd, opts, s, projectID)
			if err != nil {
				return err
			}

			state, err := buildState(snap, file, sets)
			if err != nil {
				return err
			}

			id, err := m.Push(cmd.Context(), state)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot JSON file (- for stdin)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a snapshot field, e.g. --set duration=12.5")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// buildState assembles the snapshot to push: a file if given,
// otherwise the project's current state, with --set edits applied on
// top.
func buildState(snap *history.Snapshot, file string, sets []string) (project.State, error) {
	var (
		state project.State
		err   error
	)
	switch {
	case file == "-":
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return project.State{}, fmt.Errorf("read stdin: %w", rerr)
		}
		state, err = project.NewState(data)
	case file != "":
		data, rerr := os.ReadFile(file)
		if rerr != nil {
			return project.State{}, fmt.Errorf("read snapshot file: %w", rerr)
		}
		state, err = project.NewState(data)
	case snap != nil:
		state = snap.State
	default:
		state = project.MustState(`{}`)
	}
	if err != nil {
		return project.State{}, err
	}
	if state.IsZero() {
		state = project.MustState(`{}`)
	}

	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return project.State{}, fmt.Errorf("malformed --set %q, want key=value", kv)
		}
		state, err = state.Set(key, parseValue(raw))
		if err != nil {
			return project.State{}, fmt.Errorf("set %s: %w", key, err)
		}
	}
	return state, nil
}

// parseValue interprets a --set value as JSON when it is valid JSON,
// else as a plain string.
func parseValue(raw string) any {
	if json.Valid([]byte(raw)) {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

func newHistoryUndoCommand(opts *RootOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Step the project one record backward",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, _, err := newMachine(cmd, opts, s, projectID)
			if err != nil {
				return err
			}

			state, ok, err := m.Undo(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to undo")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newHistoryRedoCommand(opts *RootOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "redo",
		Short: "Step the project one record forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, _, err := newMachine(cmd, opts, s, projectID)
			if err != nil {
				return err
			}

			state, ok, err := m.Redo(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to redo")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newHistoryLogCommand(opts *RootOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List the project's history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, _, err := newMachine(cmd, opts, s, projectID)
			if err != nil {
				return err
			}

			records, err := m.HistoryList(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			current := m.CurrentHistoryID()
			for _, rec := range records {
				marker := " "
				if rec.ID == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %3d  %s  %s  clips=%d duration=%.2fs\n",
					marker, rec.Index, rec.ID,
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.State.ClipCount(), rec.State.Duration())
			}
			fmt.Fprintf(out, "%d record(s), undo=%v redo=%v\n", len(records), m.CanUndo(), m.CanRedo())
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newHistoryClearCommand(opts *RootOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the project's entire history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := opts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			m, _, err := newMachine(cmd, opts, s, projectID)
			if err != nil {
				return err
			}

			if err := m.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
