package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zkprivacy/snarkVM/synthesizer"
)

// synthesizeCmd builds the constraint system of a function and writes it to
// disk for a later setup.
var synthesizeCmd = &cobra.Command{
	Use:     "synthesize [program.json]",
	Short:   "builds a function's constraint system and writes it to disk",
	Run:     cmdSynthesize,
	Version: buildString(),
}

var fCircuitPath string

func init() {
	rootCmd.AddCommand(synthesizeCmd)
	bindExecutionFlags(synthesizeCmd)
	synthesizeCmd.PersistentFlags().StringVar(&fCircuitPath, "out", "", "circuit output path -- default is ./[program].sys")
}

func cmdSynthesize(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing program path -- snarkvm synthesize -h for help")
		os.Exit(-1)
	}
	p, err := loadProgram(args[0])
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	synth, err := synthesizer.Synthesize(p, fFunction, fPublic, fPrivate)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	circuitPath := filepath.Join(".", artifactName(args[0])+".sys")
	if fCircuitPath != "" {
		circuitPath = fCircuitPath
	}
	if err := writeArtifact(circuitPath, synth.System); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	fmt.Printf("%-30s %-30s %-d constraints\n", "synthesized circuit", circuitPath, synth.System.NbConstraints())
	fmt.Printf("%-30s %-d variables, %-d public\n", "", synth.System.NbVariables(), synth.System.NbPublic())
}
