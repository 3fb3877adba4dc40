/*
Package tree implements an all-purpose tree type.

Styling and layout of HTML/CSS involves a lot of operations on different trees.
The styled tree is built on top of this general purpose tree type, which
offers concurrency-safe manipulation of child lists and iterative traversal.

Traversal functions:

   Walk(root, visitor)          // visit all nodes in document order
   FindAll(root, predicate)     // collect nodes matching a predicate

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree
