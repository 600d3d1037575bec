// Package config reads the configuration file of the ecdb command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mjl-/sconf"
)

var ErrInvalid = errors.New("invalid config")

// Config is the sconf configuration file of the ecdb command.
type Config struct {
	Driver         string `sconf-doc:"Backend driver, sqlite or mysql."`
	DBPath         string `sconf:"optional" sconf-doc:"Database file, for sqlite."`
	Server         string `sconf:"optional" sconf-doc:"Host or host:port of the server, for mysql."`
	Database       string `sconf:"optional" sconf-doc:"Database name, for mysql."`
	User           string `sconf:"optional" sconf-doc:"User to connect as, for mysql."`
	Pass           string `sconf:"optional" sconf-doc:"Password, for mysql. For sqlite it is accepted and ignored."`
	LogLevel       string `sconf:"optional" sconf-doc:"Log level, one of: debug, info, warn, error. Debug logs every statement. Default info."`
	MetricsAddress string `sconf:"optional" sconf-doc:"Address to serve prometheus metrics on at /metrics, e.g. localhost:8010. Empty disables the listener."`
}

// Load parses and checks the config file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a config from r and checks it.
func Parse(r io.Reader) (Config, error) {
	var c Config
	if err := sconf.Parse(r, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.check(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) check() error {
	switch strings.ToLower(c.Driver) {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("%w: sqlite needs DBPath", ErrInvalid)
		}
	case "mysql":
		var missing []string
		for _, kv := range [][2]string{{"Server", c.Server}, {"Database", c.Database}, {"User", c.User}} {
			if kv[1] == "" {
				missing = append(missing, kv[0])
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: mysql needs %s", ErrInvalid, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Params returns the connection parameters in the form the drivers take
// them, keyed like a connection string.
func (c Config) Params() map[string]string {
	p := map[string]string{"driver": strings.ToLower(c.Driver)}
	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	set("dbpath", c.DBPath)
	set("server", c.Server)
	set("database", c.Database)
	set("user", c.User)
	set("pass", c.Pass)
	return p
}

// ConnectionString renders Params as driver=...;key=value pairs.
func (c Config) ConnectionString() string {
	p := c.Params()
	parts := []string{"driver=" + p["driver"]}
	for _, k := range []string{"dbpath", "server", "database", "user", "pass"} {
		if v, ok := p[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ";")
}

// Level returns the slog level for LogLevel. Empty is info.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
}

// Describe writes an annotated example config to w.
func Describe(w io.Writer) error {
	c := Config{
		Driver:   "sqlite",
		DBPath:   "ecdb.db",
		LogLevel: "info",
	}
	return sconf.Describe(w, &c)
}
