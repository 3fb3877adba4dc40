/*
Pagedump renders HTML documents and prints the resulting pages.

	pagedump [flags] file.html ...

For every page the boxes starting on it are listed, together with continued
boxes and repeated table headers and footers. With --boxes the laid out box
tree is printed as well.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
