package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/leapstack-labs/coltype/pkg/nested"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	_ "github.com/leapstack-labs/coltype/pkg/dialects"
)

// dialectExamples are rendered through the parser for each dialect.
var dialectExamples = map[string]string{
	"hive":   "struct<id:bigint,tags:array<string>,attrs:map<string,string>>",
	"presto": `row("id" bigint, "tags" array(varchar), "ts" timestamp(3))`,
	"trino":  `row("id" bigint, "geo" row("lat" double, "lon" double))`,
}

// generateDialectDocs writes dialects.md describing every registered dialect.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "Type dialects understood by coltype")
	w.GeneratedMarker()
	w.Header(1, "Dialects")
	w.Paragraph("A dialect decides which column types are nested and how their text is normalized before parsing. Custom dialects can be declared under `dialects:` in coltype.yaml.")

	names := dialect.List()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		d := dialect.MustGet(name)
		quotes := "no"
		if d.StripsQuotes() {
			quotes = "yes"
		}
		rows = append(rows, []string{InlineCode(name), joinCode(d.Keywords()), quotes, joinCode(d.PrecisionTypes())})
	}
	w.Table([]string{"Dialect", "Nested keywords", "Strips quotes", "Precision types"}, rows)

	title := cases.Title(language.English)
	for _, name := range names {
		d := dialect.MustGet(name)
		w.Header(2, title.String(name))
		if d.Description != "" {
			w.Paragraph(d.Description)
		}
		example, ok := dialectExamples[name]
		if !ok {
			continue
		}
		if label, ok := nested.Truncate(example, name); ok {
			w.CodeBlock("text", example+"\n=> "+label)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "dialects.md"), w.Bytes(), 0600)
}

func joinCode(items []string) string {
	if len(items) == 0 {
		return ""
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = InlineCode(s)
	}
	return strings.Join(quoted, ", ")
}
