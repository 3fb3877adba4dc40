/*
Package dom provides utilities for HTML documents and their styled trees.

Tree Implementation

Styling and layout of HTML/CSS involves a lot of operations on different trees.
We implement the styled tree on top of a general purpose tree type
(package tree), which offers concurrent operations to manipluate
tree nodes. The box tree, on the contrary, is an arena of boxes addressed by
index (package boxtree).

In a fully object oriented programming language we would subclass this
tree type for every type of tree in use, but in Go we resort to composition,
thus including a generic tree node in every node (sub-)type. The downside of
this approach is that we will have to provide an adapter for every node
sub-type to return the sub-type from the generic type.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom
