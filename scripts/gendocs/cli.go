package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/coltype/internal/cli"
	"github.com/leapstack-labs/coltype/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes index.md plus one page per command path, e.g.
// catalog-import.md.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), cliIndex(root), 0600); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	return walkCommands(root, func(cmd *cobra.Command) error {
		name := pageName(cmd)
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), commandPage(cmd), 0600); err != nil {
			return fmt.Errorf("failed to write page for %s: %w", cmd.CommandPath(), err)
		}
		log.Printf("  Generated %s.md", name)
		return nil
	})
}

// walkCommands visits every documented command below root, depth first.
func walkCommands(root *cobra.Command, fn func(*cobra.Command) error) error {
	for _, cmd := range root.Commands() {
		if !documented(cmd) {
			continue
		}
		if err := fn(cmd); err != nil {
			return err
		}
		if err := walkCommands(cmd, fn); err != nil {
			return err
		}
	}
	return nil
}

func documented(cmd *cobra.Command) bool {
	return !cmd.Hidden && cmd.Name() != "help" && cmd.Name() != "__complete"
}

// pageName turns "coltype catalog import" into "catalog-import".
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "-")
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for coltype")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("coltype classifies and decomposes nested column types, imports catalog metadata into a local store and serves it over HTTP.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/coltype/cmd/coltype@latest")

	w.Header(2, "Commands")
	var rows [][]string
	_ = walkCommands(root, func(cmd *cobra.Command) error {
		path := strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(path), pageName(cmd))
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
		return nil
	})
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s, searched upward from the working directory. "+
		"Every key can also be set with a %s variable; nested keys use a double underscore. "+
		"Flags override environment variables, which override the file.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.EnvPrefix+"*")))
	w.Table([]string{"Key", "Environment", "Default"}, [][]string{
		{InlineCode("dialect"), InlineCode("COLTYPE_DIALECT"), InlineCode(config.DefaultDialect)},
		{InlineCode("strict"), InlineCode("COLTYPE_STRICT"), "false"},
		{InlineCode("max_depth"), InlineCode("COLTYPE_MAX_DEPTH"), fmt.Sprint(config.DefaultMaxDepth)},
		{InlineCode("state_path"), InlineCode("COLTYPE_STATE_PATH"), InlineCode(config.DefaultStateFile)},
		{InlineCode("output"), InlineCode("COLTYPE_OUTPUT"), InlineCode(config.DefaultOutput)},
		{InlineCode("concurrency"), InlineCode("COLTYPE_CONCURRENCY"), fmt.Sprint(config.DefaultConcurrency)},
		{InlineCode("serve.addr"), InlineCode("COLTYPE_SERVE__ADDR"), InlineCode(config.DefaultAddr)},
		{InlineCode("serve.shutdown_timeout"), InlineCode("COLTYPE_SERVE__SHUTDOWN_TIMEOUT"), InlineCode(config.DefaultShutdown.String())},
	})

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, including flat types under `check --fail-flat`"},
	})
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	if cmd.HasAvailableSubCommands() {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if documented(sub) {
				rows = append(rows, []string{fmt.Sprintf("[%s](/cli/%s)", InlineCode(sub.Name()), pageName(sub)), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalNonPersistentFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := f.DefValue
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return strings.TrimSpace(text)
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
