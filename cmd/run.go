package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zkprivacy/snarkVM/synthesizer"
)

// runCmd executes a function natively, without building a circuit.
var runCmd = &cobra.Command{
	Use:     "run [program.json]",
	Short:   "executes a program function natively and prints its outputs",
	Run:     cmdRun,
	Version: buildString(),
}

func init() {
	rootCmd.AddCommand(runCmd)
	bindExecutionFlags(runCmd)
}

func cmdRun(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing program path -- snarkvm run -h for help")
		os.Exit(-1)
	}
	p, err := loadProgram(args[0])
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	resp, err := synthesizer.Run(p, fFunction, fPublic, fPrivate)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	for _, out := range resp.Outputs {
		fmt.Println(out)
	}
}
