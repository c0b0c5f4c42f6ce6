package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/classroom/internal/engine"
	"github.com/roach88/classroom/internal/ir"
)

// ProfileOptions holds flags for the profile commands.
type ProfileOptions struct {
	*RootOptions
	As    string // requester identity
	Owner string // declared owner, defaults to As
	Name  string // display name
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create, destroy and inspect profiles",
	}

	cmd.AddCommand(newProfileCreateCommand(rootOpts))
	cmd.AddCommand(newProfileDestroyCommand(rootOpts))
	cmd.AddCommand(newProfileShowCommand(rootOpts))

	return cmd
}

func newProfileCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the requester's profile",
		Long: `Create a profile owned by the requester.

Exit codes:
  0 - Profile created
  1 - Request rejected (invalid name, already exists)
  2 - Command error (bad config, database unavailable)

Examples:
  classroom profile create --as alyssa --name Alyssa
  classroom profile create --as alyssa --name Alyssa --format json`,
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
			p, err := eng.CreateProfile(cmd.Context(), engine.CreateProfileRequest{
				Requester: ir.Identity(opts.As),
				Name:      opts.Name,
			})
			if err != nil {
				return f.Reject("create profile", err)
			}
			return f.Render(renderProfile(p), p)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "requester identity")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newProfileDestroyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a profile",
		Long: `Destroy the profile addressed by owner and name. Only the owner may
destroy it.

Examples:
  classroom profile destroy --as alyssa --name Alyssa`,
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
			err = eng.DestroyProfile(cmd.Context(), engine.DestroyProfileRequest{
				Requester: ir.Identity(opts.As),
				Owner:     ir.Identity(owner),
				Name:      opts.Name,
			})
			if err != nil {
				return f.Reject("destroy profile", err)
			}
			return f.Render(fmt.Sprintf("Destroyed profile %q of %s\n", opts.Name, owner),
				map[string]string{"owner": owner, "name": opts.Name})
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "requester identity")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "profile owner (defaults to --as)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show a profile",
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
			p, found, err := eng.FetchProfile(cmd.Context(), ir.Identity(opts.Owner), opts.Name)
			if err != nil {
				return f.Reject("show profile", err)
			}
			if !found {
				if outErr := f.Error(string(engine.CodeNotFound), fmt.Sprintf("no profile %q for %s", opts.Name, opts.Owner), nil); outErr != nil {
					return outErr
				}
				return NewExitError(ExitFailure, "profile not found")
			}
			return f.Render(renderProfile(p), p)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "profile owner")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func renderProfile(p ir.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile %s\n", p.Address)
	fmt.Fprintf(&b, "  Owner:       %s\n", p.Owner)
	fmt.Fprintf(&b, "  Name:        %s\n", p.DisplayName)
	fmt.Fprintf(&b, "  Final grade: %s\n", formatScore(p.FinalGrade))
	return b.String()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
