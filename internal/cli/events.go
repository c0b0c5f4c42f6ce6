package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/classroom/internal/ir"
)

// EventsOptions holds flags for the events and records commands.
type EventsOptions struct {
	*RootOptions
	Owner string
}

// EventView is the JSON form of a log entry. The payload is embedded as
// JSON rather than base64.
type EventView struct {
	Seq       int64           `json:"seq"`
	RequestID string          `json:"request_id"`
	Type      ir.EventType    `json:"type"`
	Owner     ir.Identity     `json:"owner"`
	Address   ir.Address      `json:"address"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// RecordView is the JSON form of a stored record.
type RecordView struct {
	Address ir.Address      `json:"address"`
	Kind    ir.RecordKind   `json:"kind"`
	Seq     int64           `json:"seq"`
	Data    json.RawMessage `json:"data"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show an owner's lifecycle log",
		Long: `Show every committed transition for an owner, in commit order.

Examples:
  classroom events --owner alyssa
  classroom events --owner alyssa --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeFn, err := openEngine(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			events, err := eng.Events(cmd.Context(), ir.Identity(opts.Owner))
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read events", err)
			}

			views := make([]EventView, len(events))
			var b strings.Builder
			for i, ev := range events {
				views[i] = EventView{
					Seq:       ev.Seq,
					RequestID: ev.RequestID,
					Type:      ev.Type,
					Owner:     ev.Owner,
					Address:   ev.Address,
					Payload:   json.RawMessage(ev.Payload),
				}
				fmt.Fprintf(&b, "%4d  %-20s  %s  %s\n", ev.Seq, ev.Type, ev.Address, ev.RequestID)
			}
			if len(events) == 0 {
				fmt.Fprintf(&b, "No events for %s.\n", opts.Owner)
			}

			return newFormatter(opts.RootOptions, cmd).Render(b.String(), views)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "event owner")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

// NewRecordsCommand creates the records command.
func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "records",
		Short:         "List the records an owner holds",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeFn, err := openEngine(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := eng.Records(cmd.Context(), ir.Identity(opts.Owner))
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list records", err)
			}

			views := make([]RecordView, len(records))
			var b strings.Builder
			for i, rec := range records {
				views[i] = RecordView{
					Address: rec.Address,
					Kind:    rec.Kind,
					Seq:     rec.Seq,
					Data:    json.RawMessage(rec.Data),
				}
				fmt.Fprintf(&b, "%4d  %-10s  %s\n", rec.Seq, rec.Kind, rec.Address)
			}
			if len(records) == 0 {
				fmt.Fprintf(&b, "No records for %s.\n", opts.Owner)
			}

			return newFormatter(opts.RootOptions, cmd).Render(b.String(), views)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "record owner")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
