package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "webserve",
		Short: "Embedded local web server",
		Long: "webserve runs the request-handling core of the embedded local web\n" +
			"server: session cookies, CSRF tokens, cache negotiation and static\n" +
			"asset serving, bound to the loopback interface.",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the webserve version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
