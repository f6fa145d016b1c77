package bus

import "errors"

// ErrUnreachableBitrate is returned when no prescaler/divisor pair can
// produce the requested bus frequency from the given base clock.
var ErrUnreachableBitrate = errors.New("bus: requested bitrate not reachable from base clock")

// ComputeClockParameters converts a base clock and target bus bitrate into
// the bit-rate generator's (prescaler exponent, divisor) pair.
//
// The generator produces
//
//	bitrate = baseClock / (16 + 2*divisor*4^prescaler)
//
// so for each prescaler exponent p the divisor solves to
//
//	divisor = baseClock/(bitrate * 4^p * 2) - 8/4^p
//
// evaluated in integer arithmetic, truncating toward zero like the hardware
// does. The smallest p whose divisor fits in a byte wins. Pure function; no
// hardware is touched.
func ComputeClockParameters(baseClockHz, targetBitrateHz uint32) (prescalerExp, divisor uint8, err error) {
	if targetBitrateHz == 0 {
		return 0, 0, ErrUnreachableBitrate
	}

	for p := uint(0); p <= 3; p++ {
		d := int64(baseClockHz)/(int64(2<<(2*p))*int64(targetBitrateHz)) - int64(8>>(2*p))
		if d >= 0 && d <= 255 {
			return uint8(p), uint8(d), nil
		}
	}
	return 0, 0, ErrUnreachableBitrate
}
