package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	gologging "github.com/sigmonsays/go-logging"
	"gopkg.in/yaml.v2"
)

var defaultConf = `
http_addr: 0.0.0.0
port: 3000
public_dir: public
index_file: index.html
log_level: info
read_header_timeout: 10s
shutdown_timeout: 10s
solver:
  path: ./nissy
  timeout: 5h
  # need the nxopt31 table, which takes more than 8GB of RAM to build
  skip_steps: [optimal, light]
auth: {}
# EOF
`

type Config struct {
	HTTPAddr          string                    `yaml:"http_addr"`
	Port              int                       `yaml:"port"`
	PublicDir         string                    `yaml:"public_dir"`
	IndexFile         string                    `yaml:"index_file"`
	Verbose           bool                      `yaml:"verbose"`
	LogLevel          string                    `yaml:"log_level"`
	ReadHeaderTimeout time.Duration             `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration             `yaml:"shutdown_timeout"`
	Solver            SolverConfig              `yaml:"solver"`
	Auth              map[string]*JwtCredential `yaml:"auth"`
}

type SolverConfig struct {
	Path      string            `yaml:"path"`
	Timeout   time.Duration     `yaml:"timeout"`
	SkipSteps []string          `yaml:"skip_steps"`
	Env       map[string]string `yaml:"env"`
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig layers the built-in defaults, an optional yaml file and the
// environment, in that order.
func LoadConfig(path string, lookup LookupFunc) (*Config, error) {
	c := &Config{}
	if err := c.LoadYamlBuffer([]byte(defaultConf)); err != nil {
		return nil, err
	}
	if path != "" {
		if err := c.LoadYaml(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if lookup != nil {
		if err := c.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}
	if err := c.FixupConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) LoadYaml(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.LoadYamlBuffer(buf)
}

func (c *Config) LoadYamlBuffer(buf []byte) error {
	err := yaml.Unmarshal(buf, c)
	if err != nil {
		return err
	}
	return nil
}

func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("NISSY_PATH"); ok && v != "" {
		c.Solver.Path = v
	}
	if v, ok := lookup("NISSY_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NISSY_TIMEOUT: %w", err)
		}
		c.Solver.Timeout = d
	}
	// set but empty clears the list
	if v, ok := lookup("NISSY_SKIP_STEPS"); ok {
		c.Solver.SkipSteps = splitList(v)
	}
	if v, ok := lookup("PUBLIC_DIR"); ok && v != "" {
		c.PublicDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) FixupConfig() error {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.IndexFile == "" {
		c.IndexFile = "index.html"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Verbose && strings.EqualFold(c.LogLevel, "info") {
		c.LogLevel = "debug"
	}
	if _, err := gologging.LevelFromString(c.LogLevel); err != nil {
		return err
	}
	if c.Solver.Path == "" {
		c.Solver.Path = "./nissy"
	}
	if c.Solver.Timeout == 0 {
		c.Solver.Timeout = DefaultSolverTimeout
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("solver timeout must be positive, got %s", c.Solver.Timeout)
	}
	if c.Auth == nil {
		c.Auth = make(map[string]*JwtCredential, 0)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPAddr, strconv.Itoa(c.Port))
}

func (c *Config) PrintConfig() error {
	buf, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", buf)
	return nil
}

func splitList(s string) []string {
	ret := make([]string, 0)
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			ret = append(ret, f)
		}
	}
	return ret
}
