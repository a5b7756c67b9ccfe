// Command cloudapp manages CloudApp drops from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/ka2n/cloudapp/cli"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
)

func main() {
	if err := cli.Run(); err != nil {
		var userMessage string
		if fmsg := failure.MessageOf(err); fmsg != "" {
			userMessage = fmsg.String()
		} else {
			userMessage = err.Error()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", userMessage)
		log.Debug("Command failed", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}
