package main

import (
	"github.com/axellelanca/coursecatalog/cmd"
	_ "github.com/axellelanca/coursecatalog/cmd/cli"
	_ "github.com/axellelanca/coursecatalog/cmd/server"
)

func main() {
	cmd.Execute()
}
