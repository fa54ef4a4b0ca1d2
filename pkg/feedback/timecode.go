package feedback

import (
	"fmt"
	"math"
	"strconv"
)

// Timecode views
const (
	ViewFullSeconds           = "fullSeconds"
	ViewFrames                = "frames"
	ViewSeconds               = "seconds"
	ViewMinutes               = "minutes"
	ViewHours                 = "hours"
	ViewDirection             = "direction"
	ViewTimestamp             = "timestamp"
	ViewTimestampFrame        = "timestampFrame"
	ViewTimestampNoHours      = "timestamp_noHours"
	ViewTimestampFrameNoHours = "timestampFrame_noHours"
)

// Fixed transport scaling of the remote composition
const (
	subSecondsInSecond = 60
	secondsInMinute    = 60
	minutesInHour      = 60
	framesInMinute     = subSecondsInSecond * secondsInMinute
	framesInHour       = framesInMinute * minutesInHour

	unitsPerHundred   = 6
	countdownOffset   = 0.6
	timestampSize     = 14
	timestampWideSize = 18
)

// Timecode is a transport position broken into display units
type Timecode struct {
	Value     float64
	CountDown bool

	Hours   int
	Minutes int
	Seconds int
	Sub     int
	Frames  int
}

// NewTimecode decomposes a transport position. When countDown is set the
// remaining time to max is used.
func NewTimecode(value, max float64, countDown bool) Timecode {
	var t float64
	if countDown {
		t = ((max-value)/100)*unitsPerHundred + countdownOffset
	} else {
		t = (value / 100) * unitsPerHundred
	}

	hours := math.Floor(math.Abs(t / framesInHour))
	minutes := math.Floor(math.Abs((t - hours*framesInHour) / framesInMinute))
	seconds := math.Floor(math.Abs((t - hours*framesInHour - minutes*framesInMinute) / subSecondsInSecond))
	sub := math.Floor(math.Abs(t - hours*framesInHour - minutes*framesInMinute - seconds*subSecondsInSecond))

	return Timecode{
		Value:     value,
		CountDown: countDown,
		Hours:     int(hours),
		Minutes:   int(minutes),
		Seconds:   int(seconds),
		Sub:       int(sub),
		Frames:    int(sub) / 2,
	}
}

// Direction is "-" when counting down and "+" otherwise
func (tc Timecode) Direction() string {
	if tc.CountDown {
		return "-"
	}
	return "+"
}

func (tc Timecode) sign() string {
	if tc.CountDown {
		return "-"
	}
	return ""
}

// View renders one of the timecode views. Unknown views yield the placeholder.
func (tc Timecode) View(view string) Result {
	switch view {
	case ViewFullSeconds:
		return Result{
			Text: strconv.FormatFloat(Round(tc.Value/100)/10, 'f', 1, 64) + "s",
			Size: timestampSize,
		}
	case ViewFrames:
		return Result{Text: pad(tc.Frames)}
	case ViewSeconds:
		return Result{Text: pad(tc.Seconds)}
	case ViewMinutes:
		return Result{Text: pad(tc.Minutes)}
	case ViewHours:
		return Result{Text: pad(tc.Hours)}
	case ViewDirection:
		return Result{Text: tc.Direction()}
	case ViewTimestampFrame:
		return Result{
			Text: tc.sign() + pad(tc.Hours) + ":" + pad(tc.Minutes) + ":" + pad(tc.Seconds) + ": " + pad(tc.Frames),
			Size: timestampSize,
		}
	case ViewTimestamp:
		return Result{
			Text: tc.sign() + pad(tc.Hours) + ":" + pad(tc.Minutes) + ":" + pad(tc.Seconds),
			Size: timestampSize,
		}
	case ViewTimestampFrameNoHours:
		return Result{
			Text: tc.sign() + pad(tc.Hours*60+tc.Minutes) + ":" + pad(tc.Seconds) + ": " + pad(tc.Frames),
			Size: timestampSize,
		}
	case ViewTimestampNoHours:
		return Result{
			Text: tc.sign() + pad(tc.Hours*60+tc.Minutes) + ":" + pad(tc.Seconds),
			Size: timestampWideSize,
		}
	}
	return Result{Text: Placeholder}
}

func pad(n int) string {
	return fmt.Sprintf("%02d", n)
}
