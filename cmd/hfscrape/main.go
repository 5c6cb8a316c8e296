package main

import (
	"hfscrape/cmd/hfscrape/commands"
	"hfscrape/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
