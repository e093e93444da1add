package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svlang/lspdev/jsonfmt"
)

var FmtCmd = &cobra.Command{
	Use:   "fmt 'json_string'",
	Short: "Pretty-print a JSON document passed as a single argument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatted, err := jsonfmt.Format(args[0])
		if err != nil {
			// A bad document is user input, not a tool failure
			fmt.Println("Error parsing JSON:", err)
			return nil
		}

		fmt.Println(formatted)
		return nil
	},
}
