// Command ecdb is an interactive shell over the Person and Address demo
// tables: it loads, navigates, filters and edits their records through the
// table cursor.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yashagw/ecdb/internal/config"
	"github.com/yashagw/ecdb/internal/driver"
)

const DefaultConnectionString = "driver=sqlite;dbpath=ecdb.db"

func main() {
	var (
		configFile = flag.String("config", "", "sconf configuration file")
		connStr    = flag.String("conn", "", "connection string, e.g. driver=sqlite;dbpath=ecdb.db; overrides -config")
		metrics    = flag.String("metrics", "", "address to serve prometheus metrics on, e.g. localhost:8010")
		describe   = flag.Bool("describe", false, "print an annotated example configuration file and exit")
	)
	flag.Parse()

	if *describe {
		if err := config.Describe(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error describing config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	conn, level, metricsAddr, err := settings(*configFile, *connStr, *metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if metricsAddr != "" {
		go serveMetrics(log, metricsAddr)
	}

	ctx := context.Background()
	d, err := driver.Open(ctx, conn, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting: %v\n", err)
		os.Exit(1)
	}
	defer d.Disconnect()

	person, address, err := demoTables(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s, err := newSession(os.Stdout, log, person, address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.close()

	fmt.Println("ecdb shell")
	fmt.Printf("Connected to %s", d.CurrentDatabase())
	if u := d.CurrentUser(); u != "" {
		fmt.Printf(" as %s", u)
	}
	fmt.Println()
	fmt.Println("Type 'help' for the commands, 'quit' or 'exit' to leave")
	fmt.Println()

	if err := repl(ctx, os.Stdin, os.Stdout, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
	}
}

// settings resolves the connection string, log level and metrics address
// from the flags and the optional config file. Flags win.
func settings(configFile, connStr, metricsAddr string) (string, slog.Level, string, error) {
	level := slog.LevelInfo
	if env := os.Getenv("ECDB_CONN"); connStr == "" && env != "" {
		connStr = env
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return "", 0, "", err
		}
		if level, err = c.Level(); err != nil {
			return "", 0, "", err
		}
		if connStr == "" {
			connStr = c.ConnectionString()
		}
		if metricsAddr == "" {
			metricsAddr = c.MetricsAddress
		}
	}
	if connStr == "" {
		connStr = DefaultConnectionString
	}
	return connStr, level, metricsAddr, nil
}

func serveMetrics(log *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics listener", "addr", addr, "err", err)
	}
}

// repl reads one command per line until quit or end of input.
func repl(ctx context.Context, in io.Reader, out io.Writer, s *session) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := s.exec(ctx, line)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
			continue
		}
		if quit {
			fmt.Fprintln(out, "Goodbye!")
			break
		}
	}
	return scanner.Err()
}
