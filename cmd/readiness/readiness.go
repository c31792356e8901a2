package readiness

import (
	"github.com/spf13/cobra"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/cli-runtime/pkg/genericiooptions"

	"github.com/datapak-io/readiness-cli/pkg/readiness"
)

const (
	cmdName  = "readiness"
	cmdShort = "Check whether the cluster meets the product installation prerequisites"
)

// AddCommand adds the readiness subcommand to the root command.
func AddCommand(root *cobra.Command, flags *genericclioptions.ConfigFlags) {
	streams := genericiooptions.IOStreams{
		In:     root.InOrStdin(),
		Out:    root.OutOrStdout(),
		ErrOut: root.ErrOrStderr(),
	}

	c := readiness.NewCommand(streams, flags)

	cmd := &cobra.Command{
		Use:          cmdName,
		Short:        cmdShort,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := c.Complete(); err != nil {
				return err
			}

			if err := c.Validate(); err != nil {
				return err
			}

			return c.Run(cobraCmd.Context())
		},
	}

	c.AddFlags(cmd.Flags())

	root.AddCommand(cmd)
}
