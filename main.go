// File: main.go
package main

import (
	"github.com/activebook/fitbot/cmd"
)

func main() {
	cmd.Execute()
}
