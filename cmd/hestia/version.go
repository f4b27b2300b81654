package main

import (
	"fmt"

	"github.com/formicidae-tracker/hestia/internal/hestia"
)

type VersionCommand struct {
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Printf("hestia version %s\n", hestia.HESTIA_VERSION)
	return nil
}

func init() {
	_, err := parser.AddCommand("version",
		"print hestia version",
		"prints hestia version on stdout and exit",
		&VersionCommand{})
	if err != nil {
		panic(err.Error())
	}
}
