package interp

import (
	"path"
	"regexp"
)

// globMatch implements glob matching (`*`, `?`, `[...]`) for `string match`
// and `lsearch -glob` with the standard library's path.Match. Unlike Tcl's
// glob, `*` and `?` never match a '/' character.
func globMatch(pattern, s string) (bool, error) {
	return path.Match(pattern, s)
}

// regexpMatch implements `lsearch -regexp` using Go's RE2 engine.
func regexpMatch(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
