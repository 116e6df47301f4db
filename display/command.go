// Package display renders command output: JSON for scripts, pterm for people.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/folio/errors"
)

// OutputEnv selects machine output for every command when set to "json"
const OutputEnv = "FOLIO_OUTPUT"

func machineOutput() bool {
	return os.Getenv(OutputEnv) == "json"
}

// ShouldOutputJSON determines if a command should output JSON based on flags
// and FOLIO_OUTPUT
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return machineOutput()
	}

	// An explicit --json / --json=false wins
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	return machineOutput()
}

// OutputJSON marshals and prints JSON using MarshalJSON
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
