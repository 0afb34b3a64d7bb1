package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/dtnitsch/bookfreq/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render serializes data in format. For text output the text callback
// writes the human listing instead.
func Render(format string, data any, text func(w io.Writer)) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		var buf bytes.Buffer
		text(&buf)
		return buf.Bytes(), nil
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (use: text, yaml or json)", format)
	}
}

// Emit renders data and writes it to --output when given, stdout otherwise.
func Emit(c *cli.Context, data any, text func(w io.Writer)) error {
	out, err := Render(c.String("format"), data, text)
	if err != nil {
		return err
	}
	if path := c.String("output"); path != "" {
		s := &storage.Storage{}
		if err := s.SaveFile(path, out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = c.App.Writer.Write(out)
	return err
}

// WriteEntries prints the two column word/count listing.
func WriteEntries(w io.Writer, entries []models.FrequencyEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s %d\n", e.Word, e.Count)
	}
}

// WriteBooks prints the stored book table.
func WriteBooks(w io.Writer, books []models.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books stored")
		return
	}

	fmt.Fprintf(w, "%-6s %-40s %-5s %-10s %-20s %s\n", "ID", "Title", "Lang", "Words", "Updated", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, b := range books {
		lang := b.Language
		if lang == "" {
			lang = "-"
		}
		fmt.Fprintf(w, "%-6d %-40s %-5s %-10d %-20s %s\n",
			b.ID,
			truncate(b.Title, 40),
			lang,
			b.WordTotal,
			b.UpdatedAt.Format("2006-01-02 15:04:05"),
			b.SourceURL,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d books\n", len(books))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
