package resolver

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Config describes the unicast nameservers and search behavior a Resolver
// uses for non-multicast queries, mirroring the handful of resolv.conf(5)
// directives that matter for a stub resolver.
type Config struct {
	// Servers is the list of nameserver addresses (host, without a port) to
	// query in order.
	Servers []string

	// Search is the list of domain suffixes tried, in order, for
	// unqualified names.
	Search []string

	// Port is the port nameservers are queried on.
	Port string

	// Ndots is the number of dots a name must contain before it is tried
	// as-is (absolute) before the search list, per resolv.conf(5).
	Ndots int

	// Timeout is a per-attempt query timeout. loadConfig keeps the fallback
	// value rather than reading one from resolv.conf, and Resolver does not
	// apply it.
	Timeout int

	// Attempts is a number of attempts per nameserver. loadConfig keeps the
	// fallback value rather than reading one from resolv.conf, and Resolver
	// does not apply it: each nameserver is queried once per name.
	Attempts int
}

// fallbackConfig is used when /etc/resolv.conf cannot be read, e.g. in a
// container or on a platform without one.
func fallbackConfig() *Config {
	return &Config{
		Servers:  []string{"8.8.8.8", "8.8.4.4"},
		Port:     "53",
		Ndots:    1,
		Timeout:  5,
		Attempts: 2,
	}
}

// DefaultConfig is loaded from /etc/resolv.conf at package initialization,
// falling back to a hardcoded pair of public resolvers if the file cannot
// be read or parsed.
var DefaultConfig = loadConfig("/etc/resolv.conf")

func loadConfig(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		return fallbackConfig()
	}
	defer f.Close()

	cfg := fallbackConfig()
	cfg.Servers = nil

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "nameserver":
			cfg.Servers = append(cfg.Servers, fields[1])

		case "domain":
			cfg.Search = []string{ensureTrailingDot(fields[1])}

		case "search":
			cfg.Search = nil
			for _, s := range fields[1:] {
				cfg.Search = append(cfg.Search, ensureTrailingDot(s))
			}

		case "options":
			for _, opt := range fields[1:] {
				if n, ok := strings.CutPrefix(opt, "ndots:"); ok {
					if v, err := strconv.Atoi(n); err == nil {
						cfg.Ndots = v
					}
				}
			}
		}
	}

	if len(cfg.Servers) == 0 {
		return fallbackConfig()
	}

	return cfg
}

func ensureTrailingDot(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// NameList returns the fully-qualified names to try, in order, for the
// given (possibly unqualified) name, applying the Ndots/Search rules from
// resolv.conf(5).
func (c *Config) NameList(name string) []string {
	name = ensureTrailingDot(name)

	if strings.Count(name, ".") > c.Ndots {
		return append([]string{name}, c.searchList(name)...)
	}

	return append(c.searchList(name), name)
}

func (c *Config) searchList(name string) []string {
	names := make([]string, 0, len(c.Search))
	for _, s := range c.Search {
		names = append(names, name[:len(name)-1]+"."+s)
	}
	return names
}
