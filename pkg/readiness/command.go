package readiness

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"

	"github.com/datapak-io/readiness-cli/pkg/readiness/check"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/capacity"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/entitlement"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/operators"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/platform"
	"github.com/datapak-io/readiness-cli/pkg/readiness/checks/storage"
)

const (
	flagDescSkipStorage = "Skip the storage backend check (recorded as Skip in the report)"
	flagDescOutput      = "Output format (table|json|yaml)"
	flagDescVerbose     = "Enable progress messages"
	flagDescTimeout     = "Maximum duration for the whole run"
	flagDescQPS         = "Maximum queries per second to the API server"
	flagDescBurst       = "Maximum burst for API server throttle"
)

// ErrChecksFailed is returned when at least one check fails, so the
// process exits non-zero.
var ErrChecksFailed = errors.New("one or more readiness checks failed")

// Command contains the readiness command configuration.
type Command struct {
	*Options

	// registry is explicitly populated to avoid global state and enable
	// test isolation.
	registry *check.Registry
}

// NewCommand creates a new Command with the full check set registered in
// report order.
func NewCommand(streams genericiooptions.IOStreams, configFlags *genericclioptions.ConfigFlags) *Command {
	registry := check.NewRegistry()

	registry.MustRegister(platform.NewCheck())
	registry.MustRegister(entitlement.NewCheck())
	registry.MustRegister(storage.NewCheck())
	registry.MustRegister(capacity.NewCheck())
	registry.MustRegister(operators.NewCommonServicesCheck())
	registry.MustRegister(operators.NewLicenseServiceCheck())

	return &Command{
		Options:  NewOptions(streams, configFlags),
		registry: registry,
	}
}

// AddFlags registers command-specific flags with the provided FlagSet.
func (c *Command) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.SkipStorage, "skip-storage", "o", false, flagDescSkipStorage)
	fs.StringVar((*string)(&c.OutputFormat), "output", string(OutputFormatTable), flagDescOutput)
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, flagDescVerbose)
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, flagDescTimeout)
	fs.Float32Var(&c.QPS, "qps", c.QPS, flagDescQPS)
	fs.IntVar(&c.Burst, "burst", c.Burst, flagDescBurst)
}

// Run executes all checks sequentially and renders the report. The
// returned error is ErrChecksFailed when any check fails, which drives
// the non-zero process exit.
func (c *Command) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	c.IO.Errorf("Running readiness checks...")

	target := &check.Target{
		Client:      c.Client,
		SkipStorage: c.SkipStorage,
	}

	report := check.NewRunner(c.registry).Run(ctx, target)

	if err := c.render(report); err != nil {
		return err
	}

	if report.ExitCode() != 0 {
		return ErrChecksFailed
	}

	return nil
}

func (c *Command) render(report *check.Report) error {
	switch c.OutputFormat {
	case OutputFormatTable:
		return OutputTable(c.IO.Out(), report)
	case OutputFormatJSON:
		return OutputJSON(c.IO.Out(), report)
	case OutputFormatYAML:
		return OutputYAML(c.IO.Out(), report)
	default:
		return fmt.Errorf("unsupported output format: %s", c.OutputFormat)
	}
}
