package readiness

import (
	"errors"
	"fmt"
	"time"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"

	"github.com/datapak-io/readiness-cli/pkg/util/client"
	"github.com/datapak-io/readiness-cli/pkg/util/iostreams"
)

// OutputFormat selects the report rendering.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"

	// DefaultTimeout bounds a whole run. The entitlement probe alone may
	// legitimately take a bit over two minutes.
	DefaultTimeout = 5 * time.Minute
)

// Validate checks if the output format is valid.
func (o OutputFormat) Validate() error {
	switch o {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: table, json, yaml)", o)
	}
}

// Options holds the readiness command configuration.
type Options struct {
	// IO provides structured access to stdin, stdout, stderr
	IO iostreams.Interface

	// ConfigFlags provides access to kubeconfig and context
	ConfigFlags *genericclioptions.ConfigFlags

	// OutputFormat specifies the report rendering (table, json, yaml)
	OutputFormat OutputFormat

	// SkipStorage records the storage check as Skip instead of running it
	SkipStorage bool

	// Verbose enables progress messages (quiet by default)
	Verbose bool

	// Timeout is the maximum duration for the whole run
	Timeout time.Duration

	// Client is the cluster inspection client (populated during Complete)
	Client *client.Client

	// Throttling settings for the Kubernetes API client
	QPS   float32
	Burst int
}

// NewOptions creates Options with defaults. ConfigFlags must be provided
// by the caller so the CLI auth flags are properly propagated.
func NewOptions(streams genericiooptions.IOStreams, configFlags *genericclioptions.ConfigFlags) *Options {
	return &Options{
		IO:           iostreams.NewIOStreams(streams.In, streams.Out, streams.ErrOut),
		ConfigFlags:  configFlags,
		OutputFormat: OutputFormatTable,
		Timeout:      DefaultTimeout,
		QPS:          client.DefaultQPS,
		Burst:        client.DefaultBurst,
	}
}

// Complete builds the cluster client and verifies the cluster is
// reachable. A failure here aborts before any check runs.
func (o *Options) Complete() error {
	restConfig, err := client.NewRESTConfig(o.ConfigFlags, o.QPS, o.Burst)
	if err != nil {
		return fmt.Errorf("failed to create REST config: %w", err)
	}

	c, err := client.NewClientWithConfig(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	if err := c.Ping(); err != nil {
		return fmt.Errorf("cluster session not established: %w", err)
	}

	o.Client = c

	if !o.Verbose {
		o.IO = iostreams.NewQuietWrapper(o.IO)
	}

	return nil
}

// Validate checks that all required options are valid.
func (o *Options) Validate() error {
	if err := o.OutputFormat.Validate(); err != nil {
		return err
	}

	if o.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}

	return nil
}
