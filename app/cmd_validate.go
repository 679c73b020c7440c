package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rkist/meteofetch/meteomatics"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewCmdValidate(out io.Writer) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a saved JSON response against the API schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValidate(out, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File")

	return cmd
}

func doValidate(out io.Writer, file string) error {
	if file == "" {
		return errors.New("parameter empty")
	}
	blob, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "cannot read file")
	}
	result, err := meteomatics.ValidateResponse(blob)
	if err != nil {
		return err
	}
	if !result.Valid() {
		fmt.Fprintln(out, "The response is invalid!")
		for _, issue := range result.Errors() {
			fmt.Fprintln(out, issue)
		}
		return errors.New("validation failed")
	}
	fmt.Fprintln(out, "The response is valid.")
	return nil
}
