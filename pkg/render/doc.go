// Package render turns computed layouts into preview artifacts.
//
// The [nodelink] subpackage emits Graphviz DOT with pinned node positions
// and renders it to SVG. The JSON layout document itself lives in package
// graph; renderers outside this module consume that document and own all
// styling.
package render
