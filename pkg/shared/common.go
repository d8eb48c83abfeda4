package shared

import (
	"sync"

	"github.com/spf13/pflag"
)

// HasFlags reports whether the user provided any flags on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	return flags.NFlag() > 0
}

// IsInList reports whether value is present in list.
func IsInList(value string, list []string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

// ForEveryStringWithBoundedGoroutines runs f for every value with at most limit goroutines in flight.
func ForEveryStringWithBoundedGoroutines(limit int, values []interface{}, f func(i int, value interface{})) {
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, value := range values {
		guard <- struct{}{} // would block if guard channel is already filled
		wg.Add(1)
		go func(i int, value interface{}) {
			defer wg.Done()
			f(i, value)
			<-guard
		}(i, value)
	}
	wg.Wait()
}
