package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/formatter"
	"github.com/oakwood-commons/tabc/pkg/loader"
	"github.com/oakwood-commons/tabc/pkg/logger"
)

var (
	catalogType   string
	catalogOutput string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the loaded catalog",
	Long: `Catalog prints the symbols of the loaded catalog (the demo graph without
--catalog). With --type it lists the members of one type. The yaml, json and
toml outputs are catalog definitions that --catalog accepts back; markdown and
html render a reference page.`,
	Example: "  tabc catalog\n  tabc catalog --type Kickup\n  tabc catalog -o json > catalog.json\n  tabc catalog -o html > catalog.html",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := newSession(effective, *logger.FromContext(rootCtx))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		opts := formatter.TableOptions{NoColor: noColor}
		colors, err := effective.Theme.TableColors()
		if err != nil {
			return err
		}
		formatter.SetTableTheme(colors)

		if catalogType != "" {
			info, err := sess.cat.Describe(catalogType)
			if err != nil {
				return err
			}
			if catalogOutput != "table" {
				return fmt.Errorf("--type supports only table output")
			}
			fmt.Fprint(out, typeHeader(info))
			fmt.Fprint(out, formatter.RenderTable(memberHeader, memberRows(sess.cat, catalogType), opts))
			return nil
		}

		switch format := loader.Format(catalogOutput); format {
		case loader.FormatYAML, loader.FormatJSON, loader.FormatTOML:
			return loader.Encode(out, loader.FromCatalog(sess.cat), format)
		case "table":
			fmt.Fprint(out, formatter.RenderTable(symbolHeader, symbolRows(sess.cat), opts))
			return nil
		case "markdown", "md":
			fmt.Fprint(out, catalogMarkdown(sess.cat, sourceName(sess.path)))
			return nil
		case "html":
			fmt.Fprint(out, formatter.MarkdownToHTML(catalogMarkdown(sess.cat, sourceName(sess.path))))
			return nil
		default:
			return fmt.Errorf("unknown output %q (expected table|yaml|json|toml|markdown|html)", catalogOutput)
		}
	},
}

var (
	symbolHeader = []string{"NAME", "SCOPE", "TYPE"}
	memberHeader = []string{"MEMBER", "KIND", "TYPE", "PARAMETERS"}
)

// catalogMarkdown documents the symbols and every type that has members.
func catalogMarkdown(cat *catalog.Catalog, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Catalog\n\nSource: %s\n\n## Symbols\n\n", source)
	b.WriteString(formatter.MarkdownTable(symbolHeader, symbolRows(cat)))
	for _, typ := range cat.Types() {
		rows := memberRows(cat, typ)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", typ)
		b.WriteString(formatter.MarkdownTable(memberHeader, rows))
	}
	return b.String()
}

func symbolRows(cat *catalog.Catalog) [][]string {
	var rows [][]string
	for _, name := range cat.AllNames() {
		sym, _ := cat.Lookup(name)
		scope := "static"
		if sym.IsInstance {
			scope = "instance"
		}
		rows = append(rows, []string{name, scope, sym.Type})
	}
	return rows
}

func memberRows(cat *catalog.Catalog, typ string) [][]string {
	var rows [][]string
	add := func(static bool) {
		for _, m := range cat.MembersOf(typ, !static) {
			kind := m.Kind.String()
			if static {
				kind = "static " + kind
			}
			if !m.IsMethod() {
				rows = append(rows, []string{m.Name, kind, m.Type, ""})
				continue
			}
			for _, sig := range m.Overloads {
				rows = append(rows, []string{m.Name, kind, m.Type, formatSignature(sig)})
			}
		}
	}
	add(false)
	add(true)
	return rows
}

func formatSignature(sig catalog.ParameterSignature) string {
	parts := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		typ := p.Type
		if sig.Variadic && i == len(sig.Params)-1 {
			typ = "..." + typ
		}
		parts[i] = strings.TrimSpace(p.Name + " " + typ)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func typeHeader(info catalog.TypeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s\n", info.Name)
	if info.Elem != "" {
		fmt.Fprintf(&b, "  element: %s\n", info.Elem)
	}
	if info.Underlying != "" {
		fmt.Fprintf(&b, "  underlying: %s\n", info.Underlying)
	}
	if len(info.AssignableTo) > 0 {
		fmt.Fprintf(&b, "  assignable to: %s\n", strings.Join(info.AssignableTo, ", "))
	}
	if info.Universal {
		b.WriteString("  universal\n")
	}
	return b.String()
}

func init() { //nolint:gochecknoinits
	catalogCmd.Flags().StringVarP(&catalogType, "type", "t", "", "list the members of this type")
	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", "table", "output format: table|yaml|json|toml|markdown|html")
}
