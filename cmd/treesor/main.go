// Command treesor is the command-line front end of the Treesor item store.
package main

import "github.com/wgross/treesor/internal/cli"

func main() {
	cli.Execute()
}
