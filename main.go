package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/k0kubun/pp"
	"github.com/minio/minio-go/v7/pkg/s3utils"

	"s3client/auth"
	"s3client/logger"
	"s3client/monitoring"
	"s3client/s3"
	"s3client/transport"
)

// Коды завершения
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// cliOptions - флаги командной строки, переопределяющие конфигурацию
type cliOptions struct {
	configFile      string
	logLevel        string
	region          string
	endpoint        string
	profile         string
	metricsListen   string
	metricsTextfile string
	dump            bool
}

// command - разобранная команда CLI
type command struct {
	name   string
	bucket string
	key    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts cliOptions

	fs := flag.NewFlagSet("s3client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error) (overrides config)")
	fs.StringVar(&opts.region, "region", "", "Signing region (overrides config)")
	fs.StringVar(&opts.endpoint, "endpoint", "", "S3 endpoint, host[:port] or scheme://host[:port] (overrides config)")
	fs.StringVar(&opts.profile, "profile", "", "Shared config profile for credentials (overrides config)")
	fs.StringVar(&opts.metricsListen, "metrics-listen", "", "Metrics server listen address (overrides config)")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write metrics to this file on exit (overrides config)")
	fs.BoolVar(&opts.dump, "dump", false, "Pretty-print results to stderr")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cmd, err := parseCommand(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr, fs)
		return exitUsage
	}

	config := DefaultAppConfig()
	if opts.configFile != "" {
		config, err = LoadConfig(opts.configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
			return exitUsage
		}
	}

	if err := applyCommandLineOverrides(config, opts); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	logger.SetGlobalOutput(stderr)
	logger.SetGlobalLevel(logger.ParseLogLevel(config.Logging.Level))

	monitor, err := monitoring.New(&config.Monitoring)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create monitoring module: %v\n", err)
		return exitUsage
	}
	if err := monitor.Start(); err != nil {
		fmt.Fprintf(stderr, "Failed to start monitoring module: %v\n", err)
		return exitError
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := monitor.Stop(ctx); err != nil {
			logger.Error("Error stopping monitoring: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := newConnection(ctx, config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	start := time.Now()
	err = execute(ctx, conn, cmd, stdout, stderr, opts.dump)

	metrics := monitoring.GetMetrics()
	metrics.CommandDuration.WithLabelValues(cmd.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(cmd.name, "error").Inc()
		fmt.Fprintln(stderr, err)
		return exitError
	}
	metrics.CommandsTotal.WithLabelValues(cmd.name, "success").Inc()
	return exitOK
}

// parseCommand разбирает "ls [s3://bucket[/prefix]]" и "cat s3://bucket/key".
// Ведущее слово "s3" допускается для совместимости с "aws s3 ...".
func parseCommand(args []string) (command, error) {
	if len(args) > 0 && args[0] == "s3" {
		args = args[1:]
	}
	if len(args) == 0 {
		return command{}, errors.New("no command given")
	}

	cmd := command{name: args[0]}
	switch cmd.name {
	case "ls":
		if len(args) > 2 {
			return command{}, errors.New("ls takes at most one argument")
		}
		if len(args) == 2 {
			bucket, prefix, err := parseS3URL(args[1])
			if err != nil {
				return command{}, err
			}
			cmd.bucket, cmd.key = bucket, prefix
		}
	case "cat":
		if len(args) != 2 {
			return command{}, errors.New("cat takes exactly one argument")
		}
		bucket, key, err := parseS3URL(args[1])
		if err != nil {
			return command{}, err
		}
		if key == "" {
			return command{}, errors.New("key not specified")
		}
		cmd.bucket, cmd.key = bucket, key
	default:
		return command{}, fmt.Errorf("unknown command %q", cmd.name)
	}
	return cmd, nil
}

// parseS3URL разбирает s3://bucket/key. Ключ не раскодируется.
func parseS3URL(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", errors.New("URL must use 's3' scheme")
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if err := s3utils.CheckValidBucketName(bucket); err != nil {
		return "", "", fmt.Errorf("invalid bucket name %q: %w", bucket, err)
	}
	return bucket, key, nil
}

func newConnection(ctx context.Context, config *AppConfig) (*s3.Connection, error) {
	provider, err := auth.NewProviderFromConfig(ctx, &config.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials provider: %w", err)
	}

	tr, err := transport.NewHTTPTransport(&config.Transport)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return s3.NewConnection(&config.S3, provider, s3.NewDispatcher(tr, nil))
}

func execute(ctx context.Context, conn *s3.Connection, cmd command, stdout, stderr io.Writer, dump bool) error {
	switch {
	case cmd.name == "cat":
		return cmdCat(ctx, conn, cmd, stdout, stderr, dump)
	case cmd.bucket != "":
		return cmdListBucket(ctx, conn, cmd, stdout, stderr, dump)
	default:
		return cmdListAll(ctx, conn, stdout, stderr, dump)
	}
}

// cmdListAll печатает каждый бакет и под ним его объекты с отступом
func cmdListAll(ctx context.Context, conn *s3.Connection, stdout, stderr io.Writer, dump bool) error {
	buckets, err := conn.ListBuckets(ctx)
	if err != nil {
		return err
	}
	monitoring.GetMetrics().BucketsListed.Set(float64(len(buckets.Buckets)))
	if dump {
		pp.Fprintln(stderr, buckets)
	}

	for _, bucket := range buckets.Buckets {
		fmt.Fprintln(stdout, bucket.Name)

		objects, err := conn.ListObjects(ctx, s3.ListObjectsRequest{Bucket: bucket.Name})
		if err != nil {
			return err
		}
		if dump {
			pp.Fprintln(stderr, objects)
		}
		for _, obj := range objects.ObjectSummaries {
			fmt.Fprintf(stdout, "  %s\n", obj.Key)
		}
	}
	return nil
}

// cmdListBucket печатает общие префиксы и ключи одного уровня бакета
func cmdListBucket(ctx context.Context, conn *s3.Connection, cmd command, stdout, stderr io.Writer, dump bool) error {
	delimiter := "/"
	req := s3.ListObjectsRequest{Bucket: cmd.bucket, Delimiter: &delimiter}
	if cmd.key != "" {
		prefix := cmd.key
		req.Prefix = &prefix
	}

	objects, err := conn.ListObjects(ctx, req)
	if err != nil {
		return err
	}
	if dump {
		pp.Fprintln(stderr, objects)
	}

	for _, prefix := range objects.CommonPrefixes {
		fmt.Fprintf(stdout, "PRE %s\n", prefix)
	}
	for _, obj := range objects.ObjectSummaries {
		fmt.Fprintln(stdout, obj.Key)
	}
	if objects.Truncated {
		logger.Warn("Listing of %s is truncated", cmd.bucket)
	}
	return nil
}

// cmdCat пишет содержимое объекта в stdout без преобразований
func cmdCat(ctx context.Context, conn *s3.Connection, cmd command, stdout, stderr io.Writer, dump bool) error {
	obj, err := conn.GetObject(ctx, cmd.bucket, cmd.key)
	if err != nil {
		return err
	}
	if dump {
		pp.Fprintln(stderr, map[string]any{"bucket": cmd.bucket, "key": cmd.key, "size": len(obj.Content)})
	}

	n, err := stdout.Write(obj.Content)
	monitoring.GetMetrics().ObjectBytesTotal.Add(float64(n))
	if err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// applyCommandLineOverrides применяет переопределения из командной строки
func applyCommandLineOverrides(config *AppConfig, opts cliOptions) error {
	if opts.logLevel != "" {
		config.Logging.Level = opts.logLevel
		logger.Debug("Override: logging.level = %s", opts.logLevel)
	}

	if opts.region != "" {
		config.S3.Region = opts.region
		logger.Debug("Override: s3.region = %s", opts.region)
	}

	if opts.endpoint != "" {
		if strings.Contains(opts.endpoint, "://") {
			u, err := url.Parse(opts.endpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint %q: %w", opts.endpoint, err)
			}
			config.S3.Scheme = u.Scheme
			config.S3.Host = u.Host
		} else {
			config.S3.Host = opts.endpoint
		}
		logger.Debug("Override: s3.endpoint = %s://%s", config.S3.Scheme, config.S3.Host)
	}

	if opts.profile != "" {
		config.Auth.Provider = auth.ProviderProfile
		config.Auth.Profile = opts.profile
		logger.Debug("Override: auth.profile = %s", opts.profile)
	}

	if opts.metricsListen != "" {
		config.Monitoring.Enabled = true
		config.Monitoring.ListenAddress = opts.metricsListen
		logger.Debug("Override: monitoring.listen_address = %s", opts.metricsListen)
	}

	if opts.metricsTextfile != "" {
		config.Monitoring.Enabled = true
		config.Monitoring.TextfilePath = opts.metricsTextfile
		logger.Debug("Override: monitoring.textfile_path = %s", opts.metricsTextfile)
	}

	return nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  s3client [flags] ls")
	fmt.Fprintln(w, "  s3client [flags] ls s3://bucket[/prefix]")
	fmt.Fprintln(w, "  s3client [flags] cat s3://bucket/key")
	fmt.Fprintln(w, "\nFlags:")
	fs.PrintDefaults()
}
