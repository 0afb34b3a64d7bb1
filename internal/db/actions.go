package db

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/bookfreq/internal/common"
	"github.com/dtnitsch/bookfreq/pkg/library"
	"github.com/urfave/cli/v2"
)

// SearchAction looks the joined arguments up as a title in the local store.
func SearchAction(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return common.Exit(fmt.Errorf("please enter a book title: %w", library.ErrEmptyInput))
	}

	app, err := common.Setup(c)
	if err != nil {
		return common.Exit(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("shutdown failed", "error", err)
		}
	}()

	result, err := app.Library.Search(c.Context, query)
	if err != nil {
		return common.Exit(err)
	}
	if !result.Found && c.String("format") == common.FormatText {
		common.Warn(c, "%q not in local DB.", result.Query)
		return nil
	}

	return common.Emit(c, result, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", result.Title)
		common.WriteEntries(w, result.Entries)
	})
}

// BooksAction lists every stored book.
func BooksAction(c *cli.Context) error {
	app, err := common.Setup(c)
	if err != nil {
		return common.Exit(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("shutdown failed", "error", err)
		}
	}()

	books, err := app.Library.Books(c.Context)
	if err != nil {
		return common.Exit(err)
	}
	return common.Emit(c, books, func(w io.Writer) {
		common.WriteBooks(w, books)
	})
}

// DeleteAction removes the book with the exact title given.
func DeleteAction(c *cli.Context) error {
	title := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(title) == "" {
		return common.Exit(fmt.Errorf("please enter a book title: %w", library.ErrEmptyInput))
	}

	app, err := common.Setup(c)
	if err != nil {
		return common.Exit(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("shutdown failed", "error", err)
		}
	}()

	removed, err := app.Library.Delete(c.Context, title)
	if err != nil {
		return common.Exit(err)
	}
	if !removed {
		common.Warn(c, "%q not in local DB.", strings.TrimSpace(title))
		return nil
	}
	common.Warn(c, "Deleted %q", strings.TrimSpace(title))
	return nil
}
