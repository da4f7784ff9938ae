package clipboard

import (
	"golang.design/x/clipboard"
)

func Init() error {
	return clipboard.Init()
}

// Write puts text on the system clipboard.
func Write(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
