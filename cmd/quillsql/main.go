package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/lexer"
)

var version string

// options is parseOptions' flag surface, grounded on cmd/mysqldef/
// mysqldef.go's own opts struct: a SQL input source plus a pre-registered
// linked table this module can actually execute against (spec.md §1 puts
// a real storage backend out of scope, so quillsql has no db_name/-u/-h
// flags of its own — CREATE LINKED TABLE, typed in the SQL itself or
// pre-opened via --config, is what it connects to).
type options struct {
	File           string `long:"file" description:"Read SQL from the file, rather than stdin" value-name:"sql_file" default:"-"`
	Config         string `long:"config" description:"YAML file listing linked_tables to preopen"`
	DSNPasswordEnv string `long:"dsn-password-env" description:"Environment variable holding a DSN password to substitute for {password} in --config DSNs" value-name:"env_name"`
	PasswordPrompt bool   `long:"password-prompt" description:"Prompt for a DSN password instead of reading --dsn-password-env"`
	Debug          bool   `long:"debug" description:"Pretty-print each parsed statement before running it"`
	Help           bool   `long:"help" description:"Show this help"`
	Version        bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts
}

func readPassword() string {
	fmt.Fprint(os.Stderr, "Enter linked table password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	return string(pass)
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func main() {
	opts := parseOptions(os.Args[1:])

	sess := newReplSession(lexer.DefaultConfig())

	if opts.Config != "" {
		cfg, err := loadConfig(opts.Config)
		if err != nil {
			log.Fatal(err)
		}
		password := os.Getenv(opts.DSNPasswordEnv)
		if opts.PasswordPrompt {
			password = readPassword()
		}
		for _, lt := range cfg.LinkedTables {
			dsn := lt.DSN
			if password != "" {
				dsn = substitutePassword(dsn, password)
			}
			stmt := &ast.CreateLinkedTable{
				Name:        &ast.TableName{Name: lt.Name},
				Driver:      lt.Driver,
				DSN:         dsn,
				RemoteTable: lt.RemoteTable,
			}
			if _, err := sess.registry.Open(context.Background(), stmt); err != nil {
				log.Fatalf("opening linked table %q: %v", lt.Name, err)
			}
		}
	}

	sql, err := readInput(opts.File)
	if err != nil {
		log.Fatal(err)
	}

	if err := runText(context.Background(), os.Stdout, sess, sql, opts.Debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// substitutePassword replaces the literal placeholder "{password}" in a
// --config DSN with a value sourced from the environment or a terminal
// prompt, so credentials never have to live in the YAML file itself.
func substitutePassword(dsn, password string) string {
	const placeholder = "{password}"
	out := make([]byte, 0, len(dsn))
	for i := 0; i < len(dsn); {
		if i+len(placeholder) <= len(dsn) && dsn[i:i+len(placeholder)] == placeholder {
			out = append(out, password...)
			i += len(placeholder)
			continue
		}
		out = append(out, dsn[i])
		i++
	}
	return string(out)
}
