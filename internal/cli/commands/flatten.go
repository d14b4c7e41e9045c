package commands

import (
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/typemeta/deep"
	"github.com/Konsultn-Engineering/typemeta/schema"
	"github.com/Konsultn-Engineering/typemeta/utils"
)

func newFlattenCommand(a *app) *cobra.Command {
	var omitNil bool

	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print a document as a single level of dotted keys",
		Long: `Convert a document into generic maps and collapse nested objects into
dotted keys, renaming every segment with the configured key naming:

  server:              server.http_port: 8080
    httpPort: 8080  ->

Arrays are kept as values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			opts := []deep.Option{
				deep.WithRegistry(a.registry),
				deep.WithKeyNaming(a.config.NamingStrategy()),
			}
			if omitNil {
				opts = append(opts, deep.WithOmitNil())
			}

			flat := map[string]any{}
			flattenInto(flat, "", deep.ToMap(doc, opts...), a.config.KeyNaming())
			return writeValue(cmd.OutOrStdout(), flat, format(a.config.Output))
		},
	}

	cmd.Flags().BoolVar(&omitNil, "omit-nil", false, "drop keys whose value is null")
	return cmd
}

// flattenInto stores every leaf of value in out under its dotted path.
// Empty objects are kept as leaves.
func flattenInto(out map[string]any, prefix string, value any, namingType schema.KeyNamingType) {
	m, ok := value.(map[string]any)
	if !ok || (len(m) == 0 && prefix != "") {
		out[prefix] = value
		return
	}
	for key, v := range m {
		name := schema.ConvertCase(key, namingType)
		if prefix != "" {
			name = prefix + utils.PathSeparator + name
		}
		flattenInto(out, name, v, namingType)
	}
}
