// Package cmd is the snarkvm command line tool: it executes, synthesizes,
// sets up, proves and verifies programs.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/spf13/cobra"

	snarkvm "github.com/zkprivacy/snarkVM"
	"github.com/zkprivacy/snarkVM/synthesizer"
)

var rootCmd = &cobra.Command{
	Use:     "snarkvm",
	Short:   "snarkvm executes and proves zero-knowledge programs",
	Version: buildString(),
}

// Execute runs the root command. It is the single entry point of the binary.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func buildString() string {
	return fmt.Sprintf("snarkvm v%s", snarkvm.Version)
}

var errNotFound = errors.New("file does not exist")

// execution flags shared by run, synthesize and prove
var (
	fFunction string
	fPublic   []string
	fPrivate  []string
)

func bindExecutionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&fFunction, "function", "main", "function to execute")
	cmd.PersistentFlags().StringArrayVar(&fPublic, "public", nil, "public input, repeatable, in declaration order")
	cmd.PersistentFlags().StringArrayVar(&fPrivate, "private", nil, "private input, repeatable, in declaration order")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// artifactName strips the directory and extension from a program or circuit
// path; artifacts default to ./<name>.<ext>.
func artifactName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadProgram(path string) (*synthesizer.Program, error) {
	path = filepath.Clean(path)
	if !fileExists(path) {
		return nil, fmt.Errorf("%s: %w", path, errNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return synthesizer.ParseProgram(data)
}

func writeArtifact(path string, src io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := src.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readArtifact(path string, dst io.ReaderFrom) error {
	path = filepath.Clean(path)
	if !fileExists(path) {
		return fmt.Errorf("%s: %w", path, errNotFound)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = dst.ReadFrom(f)
	return err
}

// public-input vectors travel as a JSON array of decimal strings
func writeInputVector(path string, inputs []fr.Element) error {
	vec := make([]string, len(inputs))
	for i := range inputs {
		vec[i] = inputs[i].String()
	}
	data, err := json.MarshalIndent(vec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func readInputVector(path string) ([]fr.Element, error) {
	path = filepath.Clean(path)
	if !fileExists(path) {
		return nil, fmt.Errorf("%s: %w", path, errNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vec []string
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, err
	}
	inputs := make([]fr.Element, len(vec))
	for i, s := range vec {
		if _, err := inputs[i].SetString(s); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}
	return inputs, nil
}
