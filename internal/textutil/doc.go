// Package textutil provides filename and token sanitization helpers used
// when composing subtitle output paths from user-supplied media names.
package textutil
