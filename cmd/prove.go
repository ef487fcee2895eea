package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkprivacy/snarkVM/backend/groth16"
	"github.com/zkprivacy/snarkVM/synthesizer"
)

// proveCmd synthesizes a function over concrete inputs and proves the
// resulting assignment. It writes the proof and the public-input vector a
// verifier needs.
var proveCmd = &cobra.Command{
	Use:     "prove [program.json]",
	Short:   "synthesizes a function over its inputs and generates a proof",
	Run:     cmdProve,
	Version: buildString(),
}

var (
	fProofPath  string
	fInputsPath string
)

func init() {
	rootCmd.AddCommand(proveCmd)
	bindExecutionFlags(proveCmd)
	proveCmd.PersistentFlags().StringVar(&fPkPath, "pk", "", "proving key path")
	proveCmd.PersistentFlags().StringVar(&fProofPath, "proof", "", "proof output path  -- default is ./[program].proof")
	proveCmd.PersistentFlags().StringVar(&fInputsPath, "inputs", "", "public-input vector output path -- default is ./[program].inputs")
}

func cmdProve(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing program path -- snarkvm prove -h for help")
		os.Exit(-1)
	}
	if fPkPath == "" {
		fmt.Println("please specify proving key path")
		_ = cmd.Usage()
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

	var pk groth16.ProvingKey
	if err := readArtifact(fPkPath, &pk); err != nil {
		fmt.Println("can't load proving key:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s\n", "loaded proving key", fPkPath)

	start := time.Now()
	proof, err := groth16.Prove(synth.System, &pk, synth.Assignment)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	proofPath := filepath.Join(".", artifactName(args[0])+".proof")
	if fProofPath != "" {
		proofPath = fProofPath
	}
	inputsPath := filepath.Join(".", artifactName(args[0])+".inputs")
	if fInputsPath != "" {
		inputsPath = fInputsPath
	}

	if err := writeArtifact(proofPath, proof); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	if err := writeInputVector(inputsPath, synth.Response.PublicInputs); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	fmt.Printf("%-30s %-30s %-30s\n", "generated proof", proofPath, time.Since(start))
	fmt.Printf("%-30s %-30s %-d elements\n", "wrote public inputs", inputsPath, len(synth.Response.PublicInputs))
}
