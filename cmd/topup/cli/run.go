package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/odyssey-erp/topup/internal/ingest"
	"github.com/odyssey-erp/topup/internal/ledger"
	"github.com/odyssey-erp/topup/internal/topup"
)

// RunOptions defines inputs for one batch invocation.
type RunOptions struct {
	CompaniesPath string
	UsersPath     string
	Store         ledger.Store
	Logger        *slog.Logger
	Stdout        io.Writer
	Stderr        io.Writer
}

// RunCommand ingests the input files and executes one top-up pass, writing
// the report to Stdout. The exit code is 1 when ingestion aborts or the pass
// fails, 0 otherwise.
func RunCommand(ctx context.Context, opts RunOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	companies, err := ingest.ReadCompanies(opts.CompaniesPath)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "topup: %v\n", err)
		return 1
	}
	users, err := ingest.ReadUsers(opts.UsersPath)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "topup: %v\n", err)
		return 1
	}

	loader := ingest.NewLoader(opts.Store, opts.Logger)
	if err := loader.Load(ctx, companies, users); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "topup: %v\n", err)
		return 1
	}

	engine := topup.NewEngine(opts.Store, opts.Logger)
	summary, err := engine.Run(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "topup: top-up pass: %v\n", err)
		return 1
	}

	if err := topup.Render(opts.Stdout, summary); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "topup: render report: %v\n", err)
		return 1
	}
	return 0
}
