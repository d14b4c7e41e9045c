package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrPathNotFound is returned by get when nothing is stored at the path.
var ErrPathNotFound = errors.New("path not found")

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a dotted path",
		Long: `Print the value stored at a dotted property path of a document.

Absent paths, and paths ending in null, exit with an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			value, ok := a.navigator.Lookup(doc, args[1])
			if !ok {
				return fmt.Errorf("%w: %s", ErrPathNotFound, args[1])
			}
			return writeValue(cmd.OutOrStdout(), value, format(a.config.Output))
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Write a value at a dotted path",
		Long: `Write a value at a dotted property path and print the whole document.

The value is read as a YAML scalar, so 8080 is a number and true a bool.
Missing intermediate objects are not created; such a write changes nothing.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, path := args[0], args[1]

			doc, err := loadDocument(file)
			if err != nil {
				return err
			}

			value := parseScalar(args[2])
			if err := a.navigator.Set(doc, path, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
			if _, ok := a.navigator.Lookup(doc, path); !ok && value != nil {
				a.logger.Warn("write had no effect", zap.String("path", path))
			}

			if inPlace {
				if err := saveDocument(file, doc); err != nil {
					return err
				}
				a.logger.Debug("document saved", zap.String("file", file))
				return nil
			}
			return writeValue(cmd.OutOrStdout(), doc, format(a.config.Output))
		},
	}

	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write the document back to its file instead of printing it")
	return cmd
}
