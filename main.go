// launch-analyzer recovers the configuration container a tag-management
// runtime embeds in its deployed script bundles, and discovers all such
// bundles reachable from a starting URL.
package main

import (
	"fmt"
	"os"

	"github.com/configured/adobe-launch-analyzer/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
