package tools

import (
	"math"
	"sync"

	"github.com/nathanhack/blockcodes/benchmarking"
	mat "github.com/nathanhack/sparsemat"
)

const bitLimit = 64

// MessageConstructor creates random messages of length bits. Short messages
// are not repeated until every one of them has been handed out.
func MessageConstructor(length int) benchmarking.BinaryMessageConstructor {
	messageHistory := make(map[string]bool)
	messageHistoryMux := sync.RWMutex{}
	messageHistoryMax := math.Pow(2, float64(length))

	return func(trial int) mat.SparseVector {
		message := mat.CSRVec(length)
		messageHistoryMux.RLock()
		_, has := messageHistory[message.String()]
		messageHistoryMux.RUnlock()
		for has {
			reset := false
			message = benchmarking.RandomMessage(length)
			messageHistoryMux.RLock()
			_, has = messageHistory[message.String()]
			reset = float64(len(messageHistory)) >= messageHistoryMax
			messageHistoryMux.RUnlock()

			if reset {
				messageHistoryMux.Lock()
				messageHistory = make(map[string]bool)
				messageHistoryMux.Unlock()
			}
		}
		messageHistoryMux.Lock()
		//when the message is relatively small we'll keep track so we don't have dups
		if message.Len() < bitLimit || message.IsZero() {
			messageHistory[message.String()] = true
		}
		messageHistoryMux.Unlock()
		return message
	}
}
