package main

import (
	"os"

	"github.com/simaogato/paperwallet-backend/cmd/walletctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
