package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/classroom/internal/engine"
	"github.com/roach88/classroom/internal/ir"
)

// SubmissionOptions holds flags for the submission commands.
type SubmissionOptions struct {
	*RootOptions
	As        string
	Owner     string
	Profile   string
	Midterm   float64
	Final     float64
	HomeworkA float64
	HomeworkB float64
}

// NewSubmissionCommand creates the submission command group.
func NewSubmissionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission",
		Short: "Create, destroy and inspect scored submissions",
	}

	cmd.AddCommand(newSubmissionCreateCommand(rootOpts))
	cmd.AddCommand(newSubmissionDestroyCommand(rootOpts))
	cmd.AddCommand(newSubmissionShowCommand(rootOpts))

	return cmd
}

func newSubmissionCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmissionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the requester's submission",
		Long: `Create a scored submission owned by the requester.

A score flag that is not given is treated as absent, and the request is
rejected as incomplete. With --profile, the submission's weighted grade is
written to the requester's profile of that name.

Exit codes:
  0 - Submission created
  1 - Request rejected (incomplete, out of range, already exists)
  2 - Command error (bad config, database unavailable)

Examples:
  classroom submission create --as alyssa --midterm 56.5 --final 78 \
      --homework-a 99.7 --homework-b 89.2
  classroom submission create --as alyssa --midterm 56.5 --final 78 \
      --homework-a 99.7 --homework-b 89.2 --profile Alyssa`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeFn, err := openEngine(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			owner := opts.Owner
			if owner == "" {
				owner = opts.As
			}

			req := engine.CreateSubmissionRequest{
				Requester: ir.Identity(opts.As),
				Owner:     ir.Identity(owner),
				Midterm:   scoreFlag(cmd, "midterm", opts.Midterm),
				Final:     scoreFlag(cmd, "final", opts.Final),
				HomeworkA: scoreFlag(cmd, "homework-a", opts.HomeworkA),
				HomeworkB: scoreFlag(cmd, "homework-b", opts.HomeworkB),
				Profile:   opts.Profile,
			}

			f := newFormatter(opts.RootOptions, cmd)
			s, err := eng.CreateSubmission(cmd.Context(), req)
			if err != nil {
				return f.Reject("create submission", err)
			}
			return f.Render(renderSubmission(s), s)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "requester identity")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "submission owner (defaults to --as)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "link to the owner's profile of this name")
	cmd.Flags().Float64Var(&opts.Midterm, "midterm", 0, "midterm score")
	cmd.Flags().Float64Var(&opts.Final, "final", 0, "final exam score")
	cmd.Flags().Float64Var(&opts.HomeworkA, "homework-a", 0, "first homework score")
	cmd.Flags().Float64Var(&opts.HomeworkB, "homework-b", 0, "second homework score")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

// scoreFlag returns nil for a flag the user did not set.
func scoreFlag(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func newSubmissionDestroyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmissionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a submission",
		Long: `Destroy the owner's submission. A linked profile that still exists has
its final grade reset to zero in the same transaction.

Examples:
  classroom submission destroy --as alyssa`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeFn, err := openEngine(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			owner := opts.Owner
			if owner == "" {
				owner = opts.As
			}

			f := newFormatter(opts.RootOptions, cmd)
			err = eng.DestroySubmission(cmd.Context(), engine.DestroySubmissionRequest{
				Requester: ir.Identity(opts.As),
				Owner:     ir.Identity(owner),
			})
			if err != nil {
				return f.Reject("destroy submission", err)
			}
			return f.Render(fmt.Sprintf("Destroyed submission of %s\n", owner),
				map[string]string{"owner": owner})
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "requester identity")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "submission owner (defaults to --as)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newSubmissionShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmissionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show a submission",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeFn, err := openEngine(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			f := newFormatter(opts.RootOptions, cmd)
			s, found, err := eng.FetchSubmission(cmd.Context(), ir.Identity(opts.Owner))
			if err != nil {
				return f.Reject("show submission", err)
			}
			if !found {
				if outErr := f.Error(string(engine.CodeNotFound), fmt.Sprintf("no submission for %s", opts.Owner), nil); outErr != nil {
					return outErr
				}
				return NewExitError(ExitFailure, "submission not found")
			}
			return f.Render(renderSubmission(s), s)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "submission owner")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func renderSubmission(s ir.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Submission %s\n", s.Address)
	fmt.Fprintf(&b, "  Owner:      %s\n", s.Owner)
	fmt.Fprintf(&b, "  Midterm:    %s\n", formatScore(s.MidtermScore))
	fmt.Fprintf(&b, "  Final:      %s\n", formatScore(s.FinalScore))
	fmt.Fprintf(&b, "  Homework A: %s\n", formatScore(s.HomeworkAScore))
	fmt.Fprintf(&b, "  Homework B: %s\n", formatScore(s.HomeworkBScore))
	if s.ProfileName != "" {
		fmt.Fprintf(&b, "  Profile:    %s\n", s.ProfileName)
	}
	return b.String()
}
