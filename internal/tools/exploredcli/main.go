package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"xdao.co/classify/classify"
	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
	"xdao.co/classify/fingerprint"

	_ "xdao.co/classify/explored/grpcreg"
	_ "xdao.co/classify/explored/localfs"
	_ "xdao.co/classify/explored/memory"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "mark":
		return cmdLookup(args[1:], true, out, errOut)
	case "has":
		return cmdLookup(args[1:], false, out, errOut)
	case "list":
		return cmdList(args[1:], out, errOut)
	case "fingerprint":
		return cmdConvert(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "exploredcli: minimal explored-registry tool for walkthroughs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  exploredcli mark --backend localfs --localfs-dir <dir> <class>...")
	fmt.Fprintln(w, "  exploredcli has --backend grpc --grpc-target <host:port> <class>...")
	fmt.Fprintln(w, "  exploredcli list --backend localfs --localfs-dir <dir>")
	fmt.Fprintln(w, "  exploredcli fingerprint <class>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <class> is a fingerprint CID or a 16-digit hex digest.")
	fmt.Fprintln(w, "mark prints 'fresh' or 'seen' per class; has prints 'true' or 'false'.")
}

type commonFlags struct {
	backend      string
	listBackends bool
}

func (c *commonFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&c.backend, "backend", "localfs", "registry backend name")
	fs.BoolVar(&c.listBackends, "list-backends", false, "List supported backends and exit")
	backends.RegisterFlags(fs, backends.UsageCLI)
}

func (c *commonFlags) open() (explored.Registry, func() error, error) {
	return backends.Open(c.backend, backends.UsageCLI)
}

func printBackends(w io.Writer) {
	for _, b := range backends.List(backends.UsageCLI) {
		if b.Description == "" {
			_, _ = fmt.Fprintf(w, "%s\n", b.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Description)
	}
}

// parseClass accepts a fingerprint or the digest's 16 hex digits.
func parseClass(s string) (classify.Digest, error) {
	if len(s) == 16 {
		if n, err := strconv.ParseUint(s, 16, 64); err == nil {
			return classify.Digest(n), nil
		}
	}
	return explored.ParseFingerprint(s)
}

func parseClasses(args []string) ([]classify.Digest, error) {
	out := make([]classify.Digest, 0, len(args))
	for _, a := range args {
		d, err := parseClass(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func cmdLookup(args []string, mark bool, out io.Writer, errOut io.Writer) int {
	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: exploredcli mark|has [common flags] <class>...")
		return 2
	}
	classes, err := parseClasses(fs.Args())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	r, closeFn, err := common.open()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	ctx := context.Background()
	for _, d := range classes {
		if mark {
			fresh, err := r.Mark(ctx, d)
			if err != nil {
				fmt.Fprintln(errOut, err)
				return 1
			}
			word := "seen"
			if fresh {
				word = "fresh"
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", fingerprint.String(d), word)
			continue
		}
		ok, err := r.Has(ctx, d)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		_, _ = fmt.Fprintf(out, "%s\t%t\n", fingerprint.String(d), ok)
	}
	return 0
}

type lister interface {
	List(ctx context.Context) ([]classify.Digest, error)
}

func cmdList(args []string, out io.Writer, errOut io.Writer) int {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}

	r, closeFn, err := common.open()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}
	l, ok := r.(lister)
	if !ok {
		fmt.Fprintf(errOut, "backend %q cannot list classes\n", common.backend)
		return 1
	}
	ds, err := l.List(context.Background())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	for _, d := range ds {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", fingerprint.String(d), d)
	}
	return 0
}

func cmdConvert(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: exploredcli fingerprint <class>...")
		return 2
	}
	classes, err := parseClasses(args)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	for _, d := range classes {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", fingerprint.String(d), d)
	}
	return 0
}
