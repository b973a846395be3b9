package main

import (
	"github.com/avelane/storefront/cmd"
)

func main() {
	cmd.Start()
}
