package event

import (
	"os"
	"testing"

	"notquiteparadise/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitForTests()
	os.Exit(m.Run())
}
