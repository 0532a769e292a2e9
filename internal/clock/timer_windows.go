package clock

import (
	"sync"
	"syscall"
	"unsafe"
)

var (
	winmm    = syscall.NewLazyDLL("winmm.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	timeBeginPeriod           = winmm.NewProc("timeBeginPeriod")
	queryPerformanceCounter   = kernel32.NewProc("QueryPerformanceCounter")
	queryPerformanceFrequency = kernel32.NewProc("QueryPerformanceFrequency")

	qpcFrequency     int64
	qpcFrequencyOnce sync.Once
)

// SetResolution requests a scheduler tick of period milliseconds so that
// short sleeps are honoured.
func SetResolution(period int) {
	timeBeginPeriod.Call(uintptr(period))
}

// getTimer reads the performance counter. time.Now only has a 1ms
// resolution on Windows.
func getTimer() int64 {
	var counter int64
	queryPerformanceCounter.Call(uintptr(unsafe.Pointer(&counter)))
	return counter
}

func frequency() int64 {
	qpcFrequencyOnce.Do(func() {
		queryPerformanceFrequency.Call(uintptr(unsafe.Pointer(&qpcFrequency)))
		if qpcFrequency <= 0 {
			qpcFrequency = 1
		}
	})
	return qpcFrequency
}

// timerBetween converts a counter difference to nanoseconds. Whole seconds
// are split off first so long runs do not overflow.
func timerBetween(start, end int64) int64 {
	freq := frequency()
	ticks := end - start
	seconds := ticks / freq
	rest := ticks % freq
	return seconds*1000000000 + rest*1000000000/freq
}
