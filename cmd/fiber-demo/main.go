// Command fiber-demo mounts element trees into the in-memory backend and
// prints every mutation the runtime performs, tick by tick.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("fiber-demo failed")
		os.Exit(1)
	}
}
