package corpus

import (
	"io"

	"github.com/dtnitsch/bookfreq/internal/common"
	"github.com/urfave/cli/v2"
)

// CorpusAction prints the top words across every stored book.
func CorpusAction(c *cli.Context) error {
	app, err := common.Setup(c)
	if err != nil {
		return common.Exit(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("shutdown failed", "error", err)
		}
	}()

	entries, err := app.Library.Corpus(c.Context, app.Config.Top)
	if err != nil {
		return common.Exit(err)
	}
	return common.Emit(c, entries, func(w io.Writer) {
		if len(entries) == 0 {
			io.WriteString(w, "No books stored\n")
			return
		}
		common.WriteEntries(w, entries)
	})
}
