package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rkist/meteofetch/summary"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewCmdSummarize(out io.Writer) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a previously saved JSON response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doSummarize(out, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File")

	return cmd
}

func doSummarize(out io.Writer, file string) error {
	if file == "" {
		return errors.New("parameter empty")
	}
	blob, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	payload, err := summary.Parse(blob)
	if err != nil {
		return errors.Wrap(err, "cannot decode payload")
	}
	fmt.Fprintln(out, summary.Summarize(payload))
	return nil
}
