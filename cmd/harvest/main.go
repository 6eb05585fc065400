package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	exited := false
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Description("Crawl a set of domains and extract the text of their pages and documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { exited = true }),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}
	// Help was printed.
	if exited {
		return nil
	}

	cfg, err := cli.config()
	if err != nil {
		return err
	}

	cmd := &CrawlCmd{
		Config:  cfg,
		Verbose: cli.Verbose,
		Stdout:  stdout,
		Stderr:  stderr,
	}
	return cmd.Run(ctx)
}

// CLI defines the command-line interface structure for Kong. Flags left at
// their zero value keep the value from the config file.
type CLI struct {
	Config            string        `short:"c" type:"path" help:"YAML configuration file"`
	Seeds             []string      `arg:"" optional:"" help:"Seed URLs (default: configured seeds)"`
	Domains           []string      `short:"d" name:"domain" help:"Allowed domain, subdomains included (repeatable)"`
	Output            string        `short:"o" help:"Output path"`
	Format            string        `short:"f" help:"Output format: json or sqlite"`
	Fetcher           string        `help:"Fetcher backend: http or colly"`
	Concurrency       int           `short:"n" help:"Concurrent fetches"`
	MaxPages          int           `help:"Maximum page fetches, negative for unbounded"`
	MaxDepth          int           `help:"Maximum page hops from a seed"`
	Timeout           time.Duration `short:"t" help:"Fetch timeout per request"`
	RequestsPerSecond float64       `name:"rps" help:"Requests per second per host"`
	Sitemaps          bool          `help:"Add URLs from the seed sites' sitemaps"`
	Verbose           bool          `short:"v" help:"Log at debug level"`
}

// config loads the configuration file, if any, and applies flag overrides.
func (c *CLI) config() (*harvest.Config, error) {
	cfg := harvest.DefaultConfig()
	if c.Config != "" {
		var err error
		if cfg, err = yaml.LoadConfig(c.Config); err != nil {
			return nil, err
		}
	}

	if len(c.Seeds) > 0 {
		cfg.Seeds = c.Seeds
	}
	if len(c.Domains) > 0 {
		cfg.AllowedDomains = c.Domains
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Fetcher != "" {
		cfg.Fetcher = c.Fetcher
	}
	if c.Concurrency != 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.MaxPages != 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.MaxDepth != 0 {
		cfg.MaxDepth = c.MaxDepth
	}
	if c.Timeout != 0 {
		cfg.FetchTimeout = c.Timeout
	}
	if c.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.Sitemaps {
		cfg.Sitemaps = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
