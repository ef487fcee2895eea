package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkprivacy/snarkVM/backend/groth16"
)

// verifyCmd checks a proof against a verifying key and a public-input vector.
var verifyCmd = &cobra.Command{
	Use:     "verify [proof]",
	Short:   "verifies a proof against a verifying key and public inputs",
	Run:     cmdVerify,
	Version: buildString(),
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.PersistentFlags().StringVar(&fVkPath, "vk", "", "verifying key path")
	verifyCmd.PersistentFlags().StringVar(&fInputsPath, "inputs", "", "public-input vector path")
}

func cmdVerify(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing proof path -- snarkvm verify -h for help")
		os.Exit(-1)
	}
	if fVkPath == "" {
		fmt.Println("please specify verifying key path")
		_ = cmd.Usage()
		os.Exit(-1)
	}
	if fInputsPath == "" {
		fmt.Println("please specify public-input vector path")
		_ = cmd.Usage()
		os.Exit(-1)
	}

	var vk groth16.VerifyingKey
	if err := readArtifact(fVkPath, &vk); err != nil {
		fmt.Println("can't load verifying key:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s\n", "loaded verifying key", fVkPath)

	inputs, err := readInputVector(fInputsPath)
	if err != nil {
		fmt.Println("can't parse public inputs:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d elements\n", "loaded public inputs", fInputsPath, len(inputs))

	var proof groth16.Proof
	if err := readArtifact(args[0], &proof); err != nil {
		fmt.Println("can't parse proof:", err)
		os.Exit(-1)
	}

	start := time.Now()
	ok, err := groth16.Verify(&vk, &proof, inputs)
	if err != nil || !ok {
		fmt.Printf("%-30s %-30s %-30s\n", "proof is invalid", args[0], time.Since(start))
		if err != nil {
			fmt.Println(err)
		}
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-30s\n", "proof is valid", args[0], time.Since(start))
}
