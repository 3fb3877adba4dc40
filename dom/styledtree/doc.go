/*
Package styledtree is a straightforward default implementation of a styled document tree.

Overview

Using a CSSOM, cssom.Style() will create a styled tree from an
HTML parse tree. Every element node of the styled tree carries a
calculated style; text nodes share the calculated style of their
parent element. The styled tree is the input of the box tree builder.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree
