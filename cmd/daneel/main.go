// Command daneel is a terminal dashboard that shows what a running agent is
// thinking, remembering and refusing to do.
package main

import "os"

func main() {
	os.Exit(Execute())
}
