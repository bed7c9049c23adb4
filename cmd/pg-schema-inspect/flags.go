package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logfmt/logfmt"
	"github.com/jackc/pgx/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/pkg/log"
)

type rootFlags struct {
	verbose    bool
	configPath string
}

func createRootFlags(cmd *cobra.Command) *rootFlags {
	var r rootFlags
	cmd.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "Log progress and debug information to stderr")
	cmd.PersistentFlags().StringVar(&r.configPath, "config", "", "YAML file providing the dsn, schema filters and connection options. Flags take precedence")
	return &r
}

// fileConfig is the optional YAML config file.
type fileConfig struct {
	DSN            string            `yaml:"dsn"`
	IncludeSchemas []string          `yaml:"include_schemas"`
	ExcludeSchemas []string          `yaml:"exclude_schemas"`
	ConnOpts       map[string]string `yaml:"conn_opts"`
}

func loadFileConfig(path string) (fileConfig, error) {
	if path == "" {
		return fileConfig{}, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// commandEnv is what every command needs once flags are parsed.
type commandEnv struct {
	cfg    fileConfig
	logger log.Logger
	// sync flushes buffered log entries
	sync func()
}

func (r *rootFlags) setup(cmd *cobra.Command) (commandEnv, error) {
	cfg, err := loadFileConfig(r.configPath)
	if err != nil {
		return commandEnv{}, err
	}
	zapLogger := newZapLogger(cmd.ErrOrStderr(), r.verbose)
	return commandEnv{
		cfg:    cfg,
		logger: log.ZapLogger(zapLogger),
		sync:   func() { _ = zapLogger.Sync() },
	}, nil
}

// newZapLogger only logs warnings and errors unless verbose is set.
func newZapLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

type connectionFlags struct {
	dsn         string
	dsnFlagName string
	connOpts    string
	// useConfigDSN falls back to the config file's dsn
	useConfigDSN bool
}

func createConnectionFlags(cmd *cobra.Command, prefix string, additionalHelp string) *connectionFlags {
	var c connectionFlags

	c.dsnFlagName = prefix + "dsn"
	c.useConfigDSN = prefix == "" || prefix == "from-"
	dsnFlagHelp := "Connection string for the database (DB password can be specified through PGPASSWORD environment variable)."
	if additionalHelp != "" {
		dsnFlagHelp += " " + additionalHelp
	}
	cmd.Flags().StringVar(&c.dsn, c.dsnFlagName, "", dsnFlagHelp)
	cmd.Flags().StringVar(&c.connOpts, prefix+"conn-opt", "", "Runtime parameters for the connection as logfmt key=value pairs, e.g., 'application_name=inspect search_path=public'")

	return &c
}

func parseConnectionFlags(flags *connectionFlags, cfg fileConfig) (*pgx.ConnConfig, error) {
	dsn := flags.dsn
	if dsn == "" && flags.useConfigDSN {
		dsn = cfg.DSN
	}
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("could not parse connection string %q: %w", dsn, err)
	}

	opts, err := logFmtToMap(flags.connOpts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s connection options: %w", flags.dsnFlagName, err)
	}
	if flags.useConfigDSN {
		for k, v := range cfg.ConnOpts {
			if _, ok := opts[k]; !ok {
				opts[k] = v
			}
		}
	}
	for _, k := range keys(opts) {
		connConfig.RuntimeParams[k] = opts[k]
	}
	return connConfig, nil
}

// logFmtToMap parses all LogFmt key/value pairs from the provided string into a
// map.
//
// All records are scanned. If a duplicate key is found, an error is returned.
func logFmtToMap(logFmt string) (map[string]string, error) {
	logMap := make(map[string]string)
	decoder := logfmt.NewDecoder(strings.NewReader(logFmt))
	for decoder.ScanRecord() {
		for decoder.ScanKeyval() {
			if _, ok := logMap[string(decoder.Key())]; ok {
				return nil, fmt.Errorf("duplicate key %q in logfmt", string(decoder.Key()))
			}
			logMap[string(decoder.Key())] = string(decoder.Value())
		}
	}
	if decoder.Err() != nil {
		return nil, decoder.Err()
	}
	return logMap, nil
}

type schemaFilterFlags struct {
	includeSchemas []string
	excludeSchemas []string
}

func createSchemaFilterFlags(cmd *cobra.Command) *schemaFilterFlags {
	var f schemaFilterFlags
	cmd.Flags().StringArrayVar(&f.includeSchemas, "include-schema", nil, "Only inspect the specified schema. Can be repeated")
	cmd.Flags().StringArrayVar(&f.excludeSchemas, "exclude-schema", nil, "Inspect every schema but the specified one. Can be repeated")
	return &f
}

// loadOpts builds the load options. Filters from flags replace the config file's filters of the same kind.
func (f *schemaFilterFlags) loadOpts(cfg fileConfig, logger log.Logger) []schema.LoadOpt {
	include, exclude := f.includeSchemas, f.excludeSchemas
	if len(include) == 0 {
		include = cfg.IncludeSchemas
	}
	if len(exclude) == 0 {
		exclude = cfg.ExcludeSchemas
	}

	opts := []schema.LoadOpt{schema.WithLogger(logger)}
	if len(include) > 0 {
		opts = append(opts, schema.WithIncludeSchemas(include...))
	}
	if len(exclude) > 0 {
		opts = append(opts, schema.WithExcludeSchemas(exclude...))
	}
	return opts
}

type schemaSourceFlags struct {
	dirs    []string
	dsnFlag *connectionFlags
}

func createSchemaSourceFlags(cmd *cobra.Command, prefix string) *schemaSourceFlags {
	var s schemaSourceFlags
	cmd.Flags().StringArrayVar(&s.dirs, prefix+"dir", nil, "Directory of .sql files defining the schema. Can be repeated; files are run in lexical order")
	s.dsnFlag = createConnectionFlags(cmd, prefix, "The database holding the schema")
	return &s
}

// schemaSourceConfig is either a set of directories or a database to inspect.
type schemaSourceConfig struct {
	dirs       []string
	connConfig *pgx.ConnConfig
}

func (s *schemaSourceFlags) parse(cfg fileConfig) (schemaSourceConfig, error) {
	dirFlagName := strings.TrimSuffix(s.dsnFlag.dsnFlagName, "dsn") + "dir"
	switch {
	case len(s.dirs) > 0 && s.dsnFlag.dsn != "":
		return schemaSourceConfig{}, fmt.Errorf("only one of --%s or --%s can be set", dirFlagName, s.dsnFlag.dsnFlagName)
	case len(s.dirs) > 0:
		return schemaSourceConfig{dirs: s.dirs}, nil
	case s.dsnFlag.dsn != "":
		connConfig, err := parseConnectionFlags(s.dsnFlag, cfg)
		if err != nil {
			return schemaSourceConfig{}, err
		}
		return schemaSourceConfig{connConfig: connConfig}, nil
	default:
		return schemaSourceConfig{}, fmt.Errorf("--%s or --%s must be set", dirFlagName, s.dsnFlag.dsnFlagName)
	}
}
