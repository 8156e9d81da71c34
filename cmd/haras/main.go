// Command haras keeps the horse breeding records of a stud farm.
package main

import (
	"os"

	"github.com/mesh-intelligence/haras/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
