package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

func parsePutArgs(args []string) (putOptions, string, string, error) {
	putFS := flag.NewFlagSet("put", flag.ContinueOnError)
	putFS.SetOutput(os.Stderr)

	var opts putOptions
	putFS.BoolVar(&opts.Raw, "raw", false, "store the value as a raw blob instead of a document")
	putFS.BoolVar(&opts.Pretty, "pretty", false, "store the document indented")
	putFS.StringVar(&opts.File, "file", "", "read the value from a file instead of the argument or stdin")

	if err := putFS.Parse(args); err != nil {
		return putOptions{}, "", "", err
	}
	if opts.Raw && opts.Pretty {
		return putOptions{}, "", "", errors.New("put -pretty applies only to documents, not -raw blobs")
	}

	rest := putFS.Args()
	switch len(rest) {
	case 1:
		return opts, rest[0], "", nil
	case 2:
		if opts.File != "" {
			return putOptions{}, "", "", errors.New("put -file cannot be combined with an inline value")
		}
		return opts, rest[0], rest[1], nil
	default:
		return putOptions{}, "", "", errors.New("usage: shelf put [-raw] [-pretty] [-file path] <key> [value]")
	}
}

func parseGetArgs(args []string) (getOptions, string, error) {
	getFS := flag.NewFlagSet("get", flag.ContinueOnError)
	getFS.SetOutput(os.Stderr)

	var opts getOptions
	getFS.BoolVar(&opts.Raw, "raw", false, "read the value as a raw blob instead of a document")
	getFS.BoolVar(&opts.MissingOK, "missing-ok", false, "exit successfully with no output when the key is absent")
	getFS.StringVar(&opts.Output, "o", "", "write the value to a file instead of stdout")

	if err := getFS.Parse(args); err != nil {
		return getOptions{}, "", err
	}

	rest := getFS.Args()
	if len(rest) != 1 {
		return getOptions{}, "", errors.New("usage: shelf get [-raw] [-missing-ok] [-o path] <key>")
	}
	return opts, rest[0], nil
}

func parseUpdateArgs(args []string) (updateOptions, string, string, error) {
	updateFS := flag.NewFlagSet("update", flag.ContinueOnError)
	updateFS.SetOutput(os.Stderr)

	var opts updateOptions
	updateFS.StringVar(&opts.File, "file", "", "read the fields from a file instead of the argument or stdin")

	if err := updateFS.Parse(args); err != nil {
		return updateOptions{}, "", "", err
	}

	rest := updateFS.Args()
	switch len(rest) {
	case 1:
		return opts, rest[0], "", nil
	case 2:
		if opts.File != "" {
			return updateOptions{}, "", "", errors.New("update -file cannot be combined with inline fields")
		}
		return opts, rest[0], rest[1], nil
	default:
		return updateOptions{}, "", "", errors.New("usage: shelf update [-file path] <key> [fields]")
	}
}

func parseRmArgs(args []string) (rmOptions, string, error) {
	rmFS := flag.NewFlagSet("rm", flag.ContinueOnError)
	rmFS.SetOutput(os.Stderr)

	var opts rmOptions
	rmFS.BoolVar(&opts.Raw, "raw", false, "remove a raw blob instead of a document")

	if err := rmFS.Parse(args); err != nil {
		return rmOptions{}, "", err
	}

	rest := rmFS.Args()
	if len(rest) != 1 {
		return rmOptions{}, "", errors.New("usage: shelf rm [-raw] <key>")
	}
	return opts, rest[0], nil
}

func parseLsArgs(args []string) (lsOptions, string, error) {
	lsFS := flag.NewFlagSet("ls", flag.ContinueOnError)
	lsFS.SetOutput(os.Stderr)

	var opts lsOptions
	lsFS.BoolVar(&opts.Raw, "raw", false, "list raw blob keys instead of document keys")

	if err := lsFS.Parse(args); err != nil {
		return lsOptions{}, "", err
	}

	rest := lsFS.Args()
	switch len(rest) {
	case 0:
		return opts, "", nil
	case 1:
		return opts, rest[0], nil
	default:
		return lsOptions{}, "", errors.New("usage: shelf ls [-raw] [path]")
	}
}

func parseExistsArgs(args []string) (existsOptions, string, error) {
	existsFS := flag.NewFlagSet("exists", flag.ContinueOnError)
	existsFS.SetOutput(os.Stderr)

	var opts existsOptions
	existsFS.BoolVar(&opts.Raw, "raw", false, "probe a raw blob instead of a document")

	if err := existsFS.Parse(args); err != nil {
		return existsOptions{}, "", err
	}

	rest := existsFS.Args()
	if len(rest) != 1 {
		return existsOptions{}, "", errors.New("usage: shelf exists [-raw] <key>")
	}
	return opts, rest[0], nil
}

func parseTransferArgs(name string, args []string) (transferOptions, string, string, error) {
	transferFS := flag.NewFlagSet(name, flag.ContinueOnError)
	transferFS.SetOutput(os.Stderr)

	var opts transferOptions
	transferFS.BoolVar(&opts.FullyQualified, "path", false, "treat arguments as fully-qualified object paths (prefix and extension untouched)")

	if err := transferFS.Parse(args); err != nil {
		return transferOptions{}, "", "", err
	}

	rest := transferFS.Args()
	if len(rest) != 2 {
		return transferOptions{}, "", "", fmt.Errorf("usage: shelf %s [-path] <source> <destination>", name)
	}
	return opts, rest[0], rest[1], nil
}
