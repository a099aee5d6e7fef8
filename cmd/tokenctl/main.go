// Command tokenctl mints, verifies and benchmarks tokens using the same
// environment configuration as a deployed service.
//
// Usage:
//
//	tokenctl mint   [-env .env] [-class access|refresh|pair] -sub ID -email E -role R
//	tokenctl verify [-env .env] [-class access|refresh] TOKEN
//	tokenctl bench  [-env .env] [-users N] [-ops N] [-concurrency N] [-redis-addr ADDR]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/clipstream/tokenauth"
	"github.com/clipstream/tokenauth/internal/logger"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const usage = `usage: tokenctl <mint|verify|bench> [flags]`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	switch args[0] {
	case "mint":
		return runMint(args[1:], stdout, stderr)
	case "verify":
		return runVerify(args[1:], stdout, stderr)
	case "bench":
		return runBench(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s\n", args[0], usage)
		return 2
	}
}

func newLogger() (*zap.Logger, error) {
	var cfg logger.Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process log env vars: %w", err)
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stderr"
	}
	return logger.New(cfg)
}

// buildEngine loads configuration from envFile and the environment.
// mutate may adjust it before the engine is built.
func buildEngine(envFile string, mutate func(*tokenauth.Config), opts ...func(*tokenauth.Builder)) (*tokenauth.Engine, *zap.Logger, error) {
	log, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := tokenauth.LoadConfig(envFile)
	if err != nil {
		return nil, nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}

	b := tokenauth.New().WithConfig(cfg).WithLogger(log)
	for _, opt := range opts {
		opt(b)
	}
	engine, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return engine, log, nil
}

func runMint(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		envFile = fs.String("env", ".env", "optional dotenv file")
		class   = fs.String("class", "access", "token class: access, refresh or pair")
		sub     = fs.String("sub", "", "subject id")
		email   = fs.String("email", "", "subject email")
		role    = fs.String("role", "", "subject role")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	engine, log, err := buildEngine(*envFile, nil)
	if err != nil {
		fmt.Fprintf(stderr, "engine: %v\n", err)
		return 1
	}
	defer engine.Close()
	defer func() { _ = log.Sync() }()

	switch *class {
	case "access", "refresh":
		mint := engine.MintAccessToken
		if *class == "refresh" {
			mint = engine.MintRefreshToken
		}
		tok, err := mint(*sub, *email, *role)
		if err != nil {
			fmt.Fprintf(stderr, "mint: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, tok)
	case "pair":
		pair, err := engine.MintTokenPair(*sub, *email, *role)
		if err != nil {
			fmt.Fprintf(stderr, "mint: %v\n", err)
			return 1
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(pair)
	default:
		fmt.Fprintf(stderr, "unknown class %q\n", *class)
		return 2
	}
	return 0
}

func runVerify(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		envFile = fs.String("env", ".env", "optional dotenv file")
		class   = fs.String("class", "access", "token class: access or refresh")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "verify takes exactly one token")
		return 2
	}

	engine, log, err := buildEngine(*envFile, nil)
	if err != nil {
		fmt.Fprintf(stderr, "engine: %v\n", err)
		return 1
	}
	defer engine.Close()
	defer func() { _ = log.Sync() }()

	var claims *tokenauth.Claims
	switch *class {
	case "access":
		claims = engine.VerifyAccessToken(fs.Arg(0))
	case "refresh":
		claims = engine.VerifyRefreshToken(fs.Arg(0))
	default:
		fmt.Fprintf(stderr, "unknown class %q\n", *class)
		return 2
	}
	if claims == nil {
		fmt.Fprintln(stderr, "invalid token")
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(claims)
	return 0
}
