package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkprivacy/snarkVM/backend/groth16"
	"github.com/zkprivacy/snarkVM/constraint"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:     "setup [circuit.sys]",
	Short:   "outputs proving and verifying keys for a given circuit",
	Run:     cmdSetup,
	Version: buildString(),
}

var (
	fVkPath, fPkPath string
)

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.PersistentFlags().StringVar(&fVkPath, "vk", "", "verifying key output path -- default is ./[circuit].vk")
	setupCmd.PersistentFlags().StringVar(&fPkPath, "pk", "", "proving key output path   -- default is ./[circuit].pk")
}

func cmdSetup(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing circuit path -- snarkvm setup -h for help")
		os.Exit(-1)
	}

	sys := constraint.NewSystem()
	if err := readArtifact(args[0], sys); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-d constraints\n", "loaded circuit", args[0], sys.NbConstraints())

	vkPath := filepath.Join(".", artifactName(args[0])+".vk")
	pkPath := filepath.Join(".", artifactName(args[0])+".pk")
	if fVkPath != "" {
		vkPath = fVkPath
	}
	if fPkPath != "" {
		pkPath = fPkPath
	}

	start := time.Now()
	pk, vk, err := groth16.Setup(sys)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %-30s\n", "setup completed", "", time.Since(start))

	if err := writeArtifact(vkPath, vk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %s\n", "generated verifying key", vkPath)
	if err := writeArtifact(pkPath, pk); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %s\n", "generated proving key", pkPath)
}
