// Package textutil turns series titles into safe export file names.
package textutil
