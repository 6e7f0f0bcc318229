// Package main is the entry point for the kissbridge application.
package main

import (
	"github.com/kissbridge/kissbridge/cmd"
	"github.com/kissbridge/kissbridge/config"
	"github.com/kissbridge/kissbridge/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
