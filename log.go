// log.go - structured logging for the mix core's once-per-block and
// once-per-event diagnostics. Never called from the per-sample hot path.

/*
License: GPLv3 or later
*/

package alcore

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "alcore",
})

// SetLogger replaces the package-level logger, e.g. to redirect into an
// application's own log sink.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}
