package main

import "github.com/zkprivacy/snarkVM/cmd"

func main() {
	cmd.Execute()
}
