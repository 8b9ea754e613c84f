package appcore

import "strconv"

// LiveLoadAction is the datastar expression that fetches a live patch.
func LiveLoadAction(livePath string) string {
	return "@get(" + strconv.Quote(livePath) + ")"
}
