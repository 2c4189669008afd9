package common

// C is the propagation speed of the transmitted signal in units per second.
// Station coordinates are expressed in the same distance unit.
const C = 299792.458

const microsecondsPerSecond = 1_000_000

// MicrosecondsToSeconds converts a raw input value in microseconds to seconds.
func MicrosecondsToSeconds(microseconds float64) float64 {
	return microseconds / microsecondsPerSecond
}

// SecondsToMicroseconds is the inverse of MicrosecondsToSeconds.
func SecondsToMicroseconds(seconds float64) float64 {
	return seconds * microsecondsPerSecond
}

// TimeDifferenceFromMicroseconds converts a per-slave microsecond pair to seconds.
func TimeDifferenceFromMicroseconds(us Vector) Vector {
	return Vector{X: MicrosecondsToSeconds(us.X), Y: MicrosecondsToSeconds(us.Y)}
}

// DistanceDifference derives the per-slave distance difference from a time
// difference in seconds. It is the only way distance differences are produced.
func DistanceDifference(timeDifference Vector) Vector {
	return timeDifference.MultiplyByScalar(C)
}

// TimeDifference is the inverse of DistanceDifference.
func TimeDifference(distanceDifference Vector) Vector {
	return distanceDifference.MultiplyByScalar(1 / C)
}
