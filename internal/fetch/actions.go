package fetch

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/bookfreq/internal/common"
	"github.com/dtnitsch/bookfreq/pkg/library"
	"github.com/urfave/cli/v2"
)

// FetchAction downloads the book at the first argument, stores its top
// words and prints them.
func FetchAction(c *cli.Context) error {
	rawURL := c.Args().First()
	if strings.TrimSpace(rawURL) == "" {
		return common.Exit(fmt.Errorf("please enter a URL: %w", library.ErrEmptyInput))
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

	result, err := app.Library.FetchAndSave(c.Context, rawURL, c.Bool("force-fetch"))
	if err != nil {
		return common.Exit(err)
	}

	return common.Emit(c, result, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n\n", result.Title)
		common.WriteEntries(w, result.Entries)
	})
}
