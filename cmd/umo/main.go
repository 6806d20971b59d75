// Command umo runs a source file through the full pipeline: parse,
// resolve, typecheck, lower, SIR typecheck, compile, interpret.
//
// Usage:
//
//	umo [--config path] [--cache] <file>
//
// Argument parsing and the top-level panic-to-friendly-error wrapper
// follow the teacher's own cmd/funxy/main.go: manual os.Args scanning
// (no "flag" package use anywhere in the pack) and a deferred recover
// that prints "Internal error: ..." unless DEBUG=1 is set, in which case
// the panic is re-raised for its stack trace.
package main

import (
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/astcheck"
	"github.com/funvibe/umo/internal/cache"
	"github.com/funvibe/umo/internal/cctx"
	"github.com/funvibe/umo/internal/config"
	"github.com/funvibe/umo/internal/diag"
	"github.com/funvibe/umo/internal/lower"
	"github.com/funvibe/umo/internal/parser"
	"github.com/funvibe/umo/internal/rthost/grpchost"
	"github.com/funvibe/umo/internal/rthost/memhost"
	"github.com/funvibe/umo/internal/rthost/stdouthost"
	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/sircompile"
	"github.com/funvibe/umo/internal/sirtypes"
	"github.com/funvibe/umo/internal/sirvm"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	configPath, enableCache, sourcePath := parseArgs(os.Args[1:])
	if sourcePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [--config path] [--cache] <file>\n", os.Args[0])
		os.Exit(1)
	}

	opts, err := config.Load(configPath)
	if err != nil {
		fail("config", err)
	}
	if enableCache {
		opts.CacheEnabled = true
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", sourcePath, err)
		os.Exit(1)
	}

	host, closeHost, err := buildHost(opts)
	if err != nil {
		fail("host", err)
	}
	if closeHost != nil {
		defer closeHost()
	}

	runOpts := sirvm.Options{PanicOnOverflow: opts.Overflow == config.OverflowPanic}

	pu, err := compile(string(source), opts)
	if err != nil {
		fail("compile", err)
	}

	if _, err := sirvm.RunWithOptions(pu, host, runOpts); err != nil {
		fail("sirvm", err)
	}
}

func parseArgs(args []string) (configPath string, enableCache bool, sourcePath string) {
	configPath = "umo.yaml"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--cache":
			enableCache = true
		case "--config":
			if i+1 < len(args) {
				i++
				configPath = args[i]
			}
		default:
			if sourcePath == "" {
				sourcePath = args[i]
			}
		}
	}
	return configPath, enableCache, sourcePath
}

func buildHost(opts *config.RunOptions) (sirvm.RuntimeHost, func(), error) {
	switch opts.Host {
	case config.HostMemory:
		return memhost.New(), nil, nil
	case config.HostGRPC:
		h, err := grpchost.Dial(opts.GRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, err
		}
		return h, func() { h.Close() }, nil
	case config.HostStdout, "":
		return stdouthost.New(os.Stdout), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown host backend %q", opts.Host)
	}
}

// compile runs source through the whole pipeline up to (but not
// including) interpretation, transparently consulting and populating
// the compiled-SIR cache when opts.CacheEnabled.
func compile(source string, opts *config.RunOptions) (pu *sir.ProgramUnit, err error) {
	var c *cache.Cache
	var key string
	if opts.CacheEnabled {
		c, err = cache.Open(opts.CachePath)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		key = cache.Key(source, string(opts.Overflow))
		if cached, err := c.Lookup(key); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}
	}

	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	ctx := cctx.New()
	builtins := ast.NewBuiltinIDs(ctx)
	scope := ast.NewScope(builtins)
	if err := ast.Resolve(ctx, scope, prog); err != nil {
		return nil, err
	}
	if err := astcheck.Check(builtins, prog); err != nil {
		return nil, err
	}

	sirUnit := lower.Lower(builtins, prog)
	if err := sirtypes.Check(builtins, sirUnit); err != nil {
		return nil, err
	}
	sircompile.Compile(sirUnit)

	if c != nil {
		if err := c.Store(key, sirUnit); err != nil {
			return nil, err
		}
	}
	return sirUnit, nil
}

func fail(phase string, err error) {
	runID := cctx.New().RunID
	d := diag.FromError(runID, phase, err)
	diag.Render(os.Stderr, d, diag.ColorEnabled(os.Stderr))
	os.Exit(1)
}
