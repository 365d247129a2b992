package service

import (
	"time"

	"github.com/Veraticus/loansiya/internal/common"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return fixedNow }
}

var testLogger = common.DiscardLogger()
