package handler

import (
	"testing"

	"mind-mend-go/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init("info", "console", "")
	m.Run()
}
