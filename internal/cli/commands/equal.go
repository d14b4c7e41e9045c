package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/typemeta/deep"
)

// ErrNotEqual is returned by equal when the documents differ, so the
// process exits non-zero.
var ErrNotEqual = errors.New("documents are not equal")

func newEqualCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "equal <a> <b>",
		Short: "Compare two documents",
		Long: `Compare two documents for logical equality.

Objects are compared over the keys both of them have; a key present on one
side only is ignored. Documents may use different formats: scalars are
normalized through JSON first, so 1 in YAML equals 1 in TOML.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := loadNormalized(args[0])
			if err != nil {
				return err
			}
			right, err := loadNormalized(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if deep.EqualWith(a.registry, left, right) {
				color.New(color.FgGreen, color.Bold).Fprintln(out, "equal")
				return nil
			}
			color.New(color.FgRed, color.Bold).Fprintln(out, "not equal")
			return ErrNotEqual
		},
	}
}

func loadNormalized(path string) (any, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	normalized, err := normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", path, err)
	}
	return normalized, nil
}
