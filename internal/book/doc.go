// Package book wraps the external jupyter-book build and copies the static
// artifacts it does not pick up into the HTML output tree.
package book
