// sfcctl is a command line tool for Sensirion SFC6xxx mass flow controllers
// connected over a serial port.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
