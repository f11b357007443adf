package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	wasmcore "github.com/wippyai/wasm-core"
	"github.com/wippyai/wasm-core/engine"
	"github.com/wippyai/wasm-core/errors"
	"github.com/wippyai/wasm-core/runtime"
	"github.com/wippyai/wasm-core/wasm"
)

type options struct {
	funcs       string
	maxSize     int
	verify      bool
	interactive bool
	strict      bool
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "wasm-inspect <file|->",
		Short:         "Decode a WebAssembly module and print its functions",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.funcs, "funcs", "f", "", "Function indices to show, separated by commas.")
	f.BoolVar(&opts.verify, "verify", false, "Cross-check the module with wazero.")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse functions in a terminal UI.")
	f.IntVar(&opts.maxSize, "max-size", wasm.DefaultMaxModuleSize, "Largest accepted module in bytes.")
	f.BoolVar(&opts.strict, "strict", false, "Reject known sections that would be skipped.")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log decoder activity to stderr.")
	return cmd
}

func run(ctx context.Context, stdin io.Reader, out io.Writer, filename string, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	wasm.SetLogger(log)
	runtime.SetLogger(log)
	engine.SetLogger(log)

	filter, err := parseFuncs(opts.funcs)
	if err != nil {
		return err
	}

	data, err := readInput(stdin, filename, opts.maxSize)
	if err != nil {
		return err
	}

	decodeOpts := []wasm.Option{wasm.WithMaxModuleSize(opts.maxSize), wasm.WithLogger(log)}
	if opts.strict {
		decodeOpts = append(decodeOpts, wasm.WithStrictSections())
	}

	m, store, err := wasmcore.Load(data, decodeOpts...)
	if err != nil {
		if opts.verify {
			if v, verr := verify(ctx, data, decodeOpts); verr == nil {
				return fmt.Errorf("%w (wazero: %s)", err, referenceStatus(v))
			}
		}
		return err
	}

	rep := buildReport(filename, len(data), m, store, filter)

	if opts.verify {
		v, err := verify(ctx, data, decodeOpts)
		if err != nil {
			return err
		}
		rep.verdict = v
	}

	if opts.interactive {
		return runInteractive(rep)
	}

	rep.render(out, newStyles(isTerminal(out)))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func readInput(stdin io.Reader, filename string, maxSize int) ([]byte, error) {
	var r io.Reader
	if filename == "-" {
		r = stdin
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "could not open "+filename)
		}
		defer f.Close()
		r = f
	}
	if maxSize > 0 {
		// One extra byte lets the decoder report the limit instead of
		// silently decoding a prefix.
		r = io.LimitReader(r, int64(maxSize)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Load("read "+filename, err)
	}
	return data, nil
}

func parseFuncs(s string) ([]uint32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var idxs []uint32
	for _, part := range strings.Split(s, ",") {
		idx, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid function index %q", part)
		}
		idxs = append(idxs, uint32(idx))
	}
	return idxs, nil
}

func verify(ctx context.Context, data []byte, decodeOpts []wasm.Option) (*engine.Verdict, error) {
	eng, err := engine.New(ctx, &engine.Config{DecodeOptions: decodeOpts})
	if err != nil {
		return nil, err
	}
	defer eng.Close(ctx)
	return eng.CrossCheck(ctx, data)
}

func referenceStatus(v *engine.Verdict) string {
	if v.Reference != nil {
		return "rejected: " + v.Reference.Error()
	}
	return "accepted"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
