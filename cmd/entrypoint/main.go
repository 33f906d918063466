package main

import (
	// Import the cmd directory with root.go
	"github.com/mateusz-piotrowski/user-profile-backup/cmd"
)

func main() {
	// Call the root command
	cmd.Execute()
}
