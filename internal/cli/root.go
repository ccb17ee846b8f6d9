// Package cli is the command-line front end of the circulation desk.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"librarydesk/internal/lending"
)

// NewRootCmd creates the root command for librarydesk.
func NewRootCmd(lib *lending.Library, logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   "librarydesk",
		Short: "Run the circulation desk of a small library",
		Long: `Track books, members and loans from the command line.

librarydesk provides tools to:
- Catalog books and register admins, librarians and members
- Lend and take back books, with late fees
- Collect fines
- Search the catalog and print reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBookCmd(lib))
	root.AddCommand(newUserCmd(lib))
	root.AddCommand(newBorrowCmd(lib, logger))
	root.AddCommand(newReturnCmd(lib, logger))
	root.AddCommand(newPayFineCmd(lib, logger))
	root.AddCommand(newExtendCmd(lib))
	root.AddCommand(newMemberCmd(lib))
	root.AddCommand(newTransactionsCmd(lib))
	root.AddCommand(newSearchCmd(lib))
	root.AddCommand(newReportCmd(lib))

	return root
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", what, s)
	}
	return id, nil
}

// printf writes a line to the command's output stream
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
